package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverland/property-agent/internal/llm"
	"github.com/silverland/property-agent/pkg/logging"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func seedProperties() []Property {
	return []Property{
		{ID: 1, ProjectName: "Marina Heights", City: "Dubai Marina", Country: "AE", PropertyType: "apartment", Bedrooms: intPtr(2), PriceUSD: floatPtr(450000), CompletionStatus: "ready"},
		{ID: 2, ProjectName: "Palm Vista", City: "Palm Jumeirah", Country: "AE", PropertyType: "villa", Bedrooms: intPtr(4), PriceUSD: floatPtr(2100000), CompletionStatus: "ready"},
		{ID: 3, ProjectName: "Downtown Lofts", City: "Downtown Dubai", Country: "AE", PropertyType: "apartment", Bedrooms: intPtr(1), PriceUSD: floatPtr(320000), CompletionStatus: "off_plan"},
		{ID: 4, ProjectName: "Old Town Studio", City: "Downtown Dubai", Country: "AE", PropertyType: "studio", Bedrooms: intPtr(0), PriceUSD: nil, CompletionStatus: "ready"},
	}
}

func TestMemoryRepositoryFilterByCity(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)

	results, err := repo.Filter(context.Background(), Criteria{City: "dubai"})
	require.NoError(t, err)
	// "Palm Jumeirah" carries no "dubai" substring and "dubai" is not a
	// country code, so Palm Vista stays out.
	require.Len(t, results, 3)

	// Price descending with unknown prices last.
	assert.Equal(t, int64(1), results[0].ID)
	assert.Equal(t, int64(4), results[2].ID)
}

func TestMemoryRepositoryFilterCityMatchesCountry(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)

	results, err := repo.Filter(context.Background(), Criteria{City: "AE", Bedrooms: intPtr(2)})
	require.NoError(t, err)

	var ids []int64
	for _, p := range results {
		ids = append(ids, p.ID)
	}
	// Bedrooms 2 matches 1, 2, and 3 bedroom listings.
	assert.ElementsMatch(t, []int64{1, 3}, ids)
}

func TestMemoryRepositoryFilterPriceBounds(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)

	results, err := repo.Filter(context.Background(), Criteria{PriceMin: floatPtr(400000), PriceMax: floatPtr(500000)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Marina Heights", results[0].ProjectName)
}

func TestMemoryRepositoryFilterLimit(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)

	results, err := repo.Filter(context.Background(), Criteria{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryRepositoryGetByID(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)

	prop, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Palm Vista", prop.ProjectName)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestPostgresRepositoryFilterBuildsConditions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "project_name", "city", "country", "property_type", "bedrooms", "bathrooms",
		"price_usd", "area_sqm", "completion_status", "features", "facilities", "description",
	}).AddRow(int64(1), "Marina Heights", "Dubai Marina", "AE", "apartment", intPtr(2), intPtr(2),
		floatPtr(450000), floatPtr(110.5), "ready", []string{"sea view"}, []string{"gym"}, "Waterfront living")

	mock.ExpectQuery("SELECT .+ FROM projects WHERE").
		WithArgs("dubai", 1, 3, 450000.0, 20).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock, logging.Default())
	results, err := repo.Filter(context.Background(), Criteria{
		City:     "dubai",
		Bedrooms: intPtr(2),
		PriceMax: floatPtr(450000),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Marina Heights", results[0].ProjectName)
	assert.Equal(t, 2, *results[0].Bedrooms)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM projects WHERE id").
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock, logging.Default())
	_, err = repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Text: s.text}, nil
}

func TestNLSearcherParsesAndFilters(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)
	searcher := NewNLSearcher(&stubLLM{
		text: "Here you go: {\"city\": \"Downtown Dubai\", \"property_type\": \"Apartment\"}",
	}, repo, logging.Default())

	results, err := searcher.Search(context.Background(), "something central and affordable", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Downtown Lofts", results[0].ProjectName)
}

func TestNLSearcherEmptyCriteria(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)
	searcher := NewNLSearcher(&stubLLM{text: "{}"}, repo, logging.Default())

	results, err := searcher.Search(context.Background(), "just browsing", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNLSearcherBadJSON(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)
	searcher := NewNLSearcher(&stubLLM{text: "I cannot help with that."}, repo, logging.Default())

	_, err := searcher.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestNLSearcherCompletionError(t *testing.T) {
	repo := NewMemoryRepository(seedProperties()...)
	searcher := NewNLSearcher(&stubLLM{err: errors.New("throttled")}, repo, logging.Default())

	_, err := searcher.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}
