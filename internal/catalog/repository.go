package catalog

import "context"

// SearchProvider is the catalog query contract used by the agent.
// Filter returns candidates in a deterministic base order (price descending)
// so scoring downstream starts from a stable list.
type SearchProvider interface {
	Filter(ctx context.Context, criteria Criteria) ([]Property, error)
	GetByID(ctx context.Context, id int64) (*Property, error)
}
