package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory SearchProvider used in tests and demos.
// Matching semantics mirror the Postgres repository.
type MemoryRepository struct {
	mu         sync.RWMutex
	properties []Property
}

// NewMemoryRepository seeds a repository with the given properties.
func NewMemoryRepository(properties ...Property) *MemoryRepository {
	return &MemoryRepository{properties: properties}
}

// Add appends properties to the inventory.
func (r *MemoryRepository) Add(properties ...Property) {
	r.mu.Lock()
	r.properties = append(r.properties, properties...)
	r.mu.Unlock()
}

func (r *MemoryRepository) Filter(ctx context.Context, criteria Criteria) ([]Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Property
	for _, prop := range r.properties {
		if matchesCriteria(prop, criteria) {
			matches = append(matches, prop)
		}
	}

	// Price descending, unknown prices last, id as the final tiebreak.
	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := matches[i].PriceUSD, matches[j].PriceUSD
		switch {
		case pi == nil && pj == nil:
			return matches[i].ID < matches[j].ID
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi > *pj
		default:
			return matches[i].ID < matches[j].ID
		}
	})

	limit := criteria.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.properties {
		if r.properties[i].ID == id {
			prop := r.properties[i]
			return &prop, nil
		}
	}
	return nil, ErrProjectNotFound
}

func matchesCriteria(prop Property, criteria Criteria) bool {
	if criteria.City != "" {
		city := strings.ToLower(criteria.City)
		if !strings.Contains(strings.ToLower(prop.City), city) &&
			!strings.EqualFold(prop.Country, criteria.City) {
			return false
		}
	}
	if criteria.Country != "" && !strings.EqualFold(prop.Country, criteria.Country) {
		return false
	}
	if criteria.Bedrooms != nil {
		if prop.Bedrooms == nil {
			return false
		}
		diff := *prop.Bedrooms - *criteria.Bedrooms
		if diff < -1 || diff > 1 {
			return false
		}
	}
	if criteria.PriceMin != nil && (prop.PriceUSD == nil || *prop.PriceUSD < *criteria.PriceMin) {
		return false
	}
	if criteria.PriceMax != nil && (prop.PriceUSD == nil || *prop.PriceUSD > *criteria.PriceMax) {
		return false
	}
	if criteria.PropertyType != "" && !strings.EqualFold(prop.PropertyType, criteria.PropertyType) {
		return false
	}
	if criteria.CompletionStatus != "" && !strings.EqualFold(prop.CompletionStatus, criteria.CompletionStatus) {
		return false
	}
	return true
}
