package leads

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage. Save is an upsert:
// re-submitting contact details within the same conversation updates the
// existing row instead of creating a duplicate.
type Repository interface {
	Save(ctx context.Context, req *SaveLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
}

// InMemoryRepository is an in-memory Repository used in tests and demos.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Save stores or updates a lead keyed by conversation and email.
func (r *InMemoryRepository) Save(ctx context.Context, req *SaveLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, existing := range r.leads {
		if existing.ConversationID == req.ConversationID &&
			strings.EqualFold(existing.Email, req.Email) {
			existing.FirstName = req.FirstName
			existing.LastName = req.LastName
			existing.Phone = req.Phone
			existing.Preferences = req.Preferences
			existing.UpdatedAt = now
			copied := *existing
			return &copied, nil
		}
	}

	lead := &Lead{
		ID:             uuid.New().String(),
		ConversationID: req.ConversationID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Preferences:    req.Preferences,
		Source:         req.Source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.leads[lead.ID] = lead

	copied := *lead
	return &copied, nil
}

// GetByID retrieves a lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}

	copied := *lead
	return &copied, nil
}
