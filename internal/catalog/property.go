// Package catalog exposes the property inventory the agent searches against.
package catalog

import "errors"

// ErrProjectNotFound is returned when a project id does not exist.
var ErrProjectNotFound = errors.New("catalog: project not found")

// Property is a single catalog entry. Optional numeric fields use pointers so
// "not listed" is distinguishable from zero.
type Property struct {
	ID               int64    `json:"id"`
	ProjectName      string   `json:"project_name"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	PropertyType     string   `json:"property_type,omitempty"`
	Bedrooms         *int     `json:"bedrooms,omitempty"`
	Bathrooms        *int     `json:"bathrooms,omitempty"`
	PriceUSD         *float64 `json:"price_usd,omitempty"`
	AreaSqm          *float64 `json:"area_sqm,omitempty"`
	CompletionStatus string   `json:"completion_status,omitempty"`
	Features         []string `json:"features,omitempty"`
	Facilities       []string `json:"facilities,omitempty"`
	Description      string   `json:"description,omitempty"`
}

// Criteria is a structured catalog filter. All fields are optional; zero
// values mean "unconstrained". Price bounds are applied as given; tolerance
// bands are the caller's concern.
type Criteria struct {
	// City matches as a case-insensitive substring of the property's city,
	// or an exact country-code match (people type "UAE" where a city goes).
	City             string
	Country          string
	Bedrooms         *int // matches the requested count or one off in either direction
	PriceMin         *float64
	PriceMax         *float64
	PropertyType     string
	CompletionStatus string
	Limit            int
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.City == "" && c.Country == "" && c.Bedrooms == nil &&
		c.PriceMin == nil && c.PriceMax == nil &&
		c.PropertyType == "" && c.CompletionStatus == ""
}
