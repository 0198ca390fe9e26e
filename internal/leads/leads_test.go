package leads

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLeadRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SaveLeadRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  SaveLeadRequest{FirstName: "Amina", Email: "amina@example.com"},
		},
		{
			name:    "missing first name",
			req:     SaveLeadRequest{Email: "amina@example.com"},
			wantErr: ErrMissingName,
		},
		{
			name:    "whitespace first name",
			req:     SaveLeadRequest{FirstName: "   ", Email: "amina@example.com"},
			wantErr: ErrMissingName,
		},
		{
			name:    "missing email",
			req:     SaveLeadRequest{FirstName: "Amina"},
			wantErr: ErrMissingEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInMemoryRepositorySaveAndGet(t *testing.T) {
	repo := NewInMemoryRepository()

	lead, err := repo.Save(context.Background(), &SaveLeadRequest{
		ConversationID: "conv-1",
		FirstName:      "Amina",
		Email:          "amina@example.com",
		Phone:          "+971501234567",
		Source:         "chat",
	})
	require.NoError(t, err)
	require.NotEmpty(t, lead.ID)

	got, err := repo.GetByID(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina", got.FirstName)
	assert.Equal(t, "conv-1", got.ConversationID)
}

func TestInMemoryRepositorySaveUpserts(t *testing.T) {
	repo := NewInMemoryRepository()

	first, err := repo.Save(context.Background(), &SaveLeadRequest{
		ConversationID: "conv-1",
		FirstName:      "Amina",
		Email:          "amina@example.com",
	})
	require.NoError(t, err)

	second, err := repo.Save(context.Background(), &SaveLeadRequest{
		ConversationID: "conv-1",
		FirstName:      "Amina",
		LastName:       "Hassan",
		Email:          "Amina@Example.com",
		Phone:          "+971501234567",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Hassan", second.LastName)
	assert.Equal(t, "+971501234567", second.Phone)
}

func TestInMemoryRepositoryDifferentConversations(t *testing.T) {
	repo := NewInMemoryRepository()

	a, err := repo.Save(context.Background(), &SaveLeadRequest{
		ConversationID: "conv-1", FirstName: "Amina", Email: "amina@example.com",
	})
	require.NoError(t, err)

	b, err := repo.Save(context.Background(), &SaveLeadRequest{
		ConversationID: "conv-2", FirstName: "Amina", Email: "amina@example.com",
	})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestInMemoryRepositoryGetByIDNotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestPostgresRepositorySave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "conv-1", "Amina", "Hassan", "amina@example.com", "+971501234567",
			map[string]any{"city": "Dubai"}, "chat").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("lead-1", now, now))

	repo := NewPostgresRepository(mock)
	lead, err := repo.Save(context.Background(), &SaveLeadRequest{
		ConversationID: "conv-1",
		FirstName:      "Amina",
		LastName:       "Hassan",
		Email:          "amina@example.com",
		Phone:          "+971501234567",
		Preferences:    map[string]any{"city": "Dubai"},
		Source:         "chat",
	})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, now, lead.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositorySaveRejectsInvalid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	_, err = repo.Save(context.Background(), &SaveLeadRequest{Email: "amina@example.com"})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM leads").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
