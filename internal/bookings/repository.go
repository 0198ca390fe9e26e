package bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository provides persistence for viewing bookings.
type Repository interface {
	Create(ctx context.Context, booking *Booking) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
}

// PgxQuerier is the subset of pgxpool.Pool the repository needs.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	db PgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db PgxQuerier) *PostgresRepository {
	if db == nil {
		panic("bookings: pgx querier required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a pending booking row.
func (r *PostgresRepository) Create(ctx context.Context, booking *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (id, lead_id, project_id, conversation_id, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	status := booking.Status
	if status == "" {
		status = StatusPending
	}
	created := *booking
	created.Status = status
	if err := r.db.QueryRow(ctx, query,
		uuid.New(),
		booking.LeadID,
		booking.ProjectID,
		booking.ConversationID,
		status,
		booking.Notes,
	).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}
	return &created, nil
}

// GetByID fetches one booking.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, lead_id, project_id, conversation_id, status, COALESCE(notes, ''), created_at
		FROM bookings
		WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	var booking Booking
	if err := row.Scan(
		&booking.ID,
		&booking.LeadID,
		&booking.ProjectID,
		&booking.ConversationID,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return &booking, nil
}

// InMemoryRepository is an in-memory Repository for tests and demos.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{bookings: make(map[string]*Booking)}
}

func (r *InMemoryRepository) Create(ctx context.Context, booking *Booking) (*Booking, error) {
	created := *booking
	created.ID = uuid.New().String()
	if created.Status == "" {
		created.Status = StatusPending
	}
	created.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.bookings[created.ID] = &created
	r.mu.Unlock()

	copied := created
	return &copied, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}
