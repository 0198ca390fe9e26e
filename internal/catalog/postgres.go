package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/silverland/property-agent/pkg/logging"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs. Tests
// substitute a pgxmock pool.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads the projects table.
type PostgresRepository struct {
	db     PgxQuerier
	logger *logging.Logger
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db PgxQuerier, logger *logging.Logger) *PostgresRepository {
	if db == nil {
		panic("catalog: pgx querier required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

const propertyColumns = `id, project_name, city, country, COALESCE(property_type, ''), bedrooms, bathrooms,
	price_usd, area_sqm, COALESCE(completion_status, ''), features, facilities, COALESCE(description, '')`

// Filter builds a dynamic WHERE clause from the criteria and returns matches
// ordered by price descending (NULL prices last) as the deterministic base
// order before scoring.
func (r *PostgresRepository) Filter(ctx context.Context, criteria Criteria) ([]Property, error) {
	var (
		conditions = []string{"is_valid"}
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if criteria.City != "" {
		p := arg(criteria.City)
		conditions = append(conditions, fmt.Sprintf("(city ILIKE '%%' || %s || '%%' OR country ILIKE %s)", p, p))
	}
	if criteria.Country != "" {
		conditions = append(conditions, fmt.Sprintf("country ILIKE %s", arg(criteria.Country)))
	}
	if criteria.Bedrooms != nil {
		conditions = append(conditions, fmt.Sprintf("bedrooms BETWEEN %s AND %s",
			arg(*criteria.Bedrooms-1), arg(*criteria.Bedrooms+1)))
	}
	if criteria.PriceMin != nil {
		conditions = append(conditions, fmt.Sprintf("price_usd >= %s", arg(*criteria.PriceMin)))
	}
	if criteria.PriceMax != nil {
		conditions = append(conditions, fmt.Sprintf("price_usd <= %s", arg(*criteria.PriceMax)))
	}
	if criteria.PropertyType != "" {
		conditions = append(conditions, fmt.Sprintf("property_type ILIKE %s", arg(criteria.PropertyType)))
	}
	if criteria.CompletionStatus != "" {
		conditions = append(conditions, fmt.Sprintf("completion_status ILIKE %s", arg(criteria.CompletionStatus)))
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY price_usd DESC NULLS LAST, id LIMIT %s`,
		propertyColumns, strings.Join(conditions, " AND "), arg(limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: filter query failed: %w", err)
	}
	defer rows.Close()

	var results []Property
	for rows.Next() {
		prop, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan failed: %w", err)
		}
		results = append(results, prop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: filter rows: %w", err)
	}
	return results, nil
}

// GetByID fetches a single project.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1 AND is_valid`, propertyColumns)
	row := r.db.QueryRow(ctx, query, id)
	prop, err := scanProperty(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("catalog: select failed: %w", err)
	}
	return &prop, nil
}

func scanProperty(row pgx.Row) (Property, error) {
	var prop Property
	err := row.Scan(
		&prop.ID,
		&prop.ProjectName,
		&prop.City,
		&prop.Country,
		&prop.PropertyType,
		&prop.Bedrooms,
		&prop.Bathrooms,
		&prop.PriceUSD,
		&prop.AreaSqm,
		&prop.CompletionStatus,
		&prop.Features,
		&prop.Facilities,
		&prop.Description,
	)
	return prop, err
}
