package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db PgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db PgxQuerier) *PostgresRepository {
	if db == nil {
		panic("leads: pgx querier required")
	}
	return &PostgresRepository{db: db}
}

// Save upserts a lead on (conversation_id, email) so repeated contact
// submissions within one conversation update the same row.
func (r *PostgresRepository) Save(ctx context.Context, req *SaveLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO leads (id, conversation_id, first_name, last_name, email, phone, preferences, source)
		VALUES ($1, $2, $3, $4, lower($5), $6, $7, $8)
		ON CONFLICT (conversation_id, email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			preferences = EXCLUDED.preferences,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	var (
		id                   string
		createdAt, updatedAt time.Time
	)
	if err := r.db.QueryRow(ctx, query,
		uuid.New(),
		req.ConversationID,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Phone,
		req.Preferences,
		req.Source,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("leads: upsert failed: %w", err)
	}

	return &Lead{
		ID:             id,
		ConversationID: req.ConversationID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Preferences:    req.Preferences,
		Source:         req.Source,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, conversation_id, first_name, last_name, email, phone, preferences, source, created_at, updated_at
		FROM leads
		WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.ConversationID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&lead.Phone,
		&lead.Preferences,
		&lead.Source,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return &lead, nil
}
