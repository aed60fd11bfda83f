package models

import "time"

// MatchFilters are the optional hard constraints of a profile->postings query.
// Nil / empty fields mean "no constraint" for that dimension.
type MatchFilters struct {
	ExperienceLevel *string  `json:"experience_level,omitempty"`
	Locations       []string `json:"locations,omitempty"`

	// UseProfileDefaults fills absent dimensions from the anchor profile's declared level and locations.
	UseProfileDefaults bool `json:"use_profile_defaults,omitempty"`
}

type PageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// MatchResult exists only for the duration of one request.
type MatchResult struct {
	EntityID  string    `json:"entity_id"`
	Rank      int       `json:"rank"`
	Score     float64   `json:"score"`
	Stale     bool      `json:"stale"`
	UpdatedAt time.Time `json:"-"`
}

type MatchPage struct {
	Kind          EntityKind    `json:"kind"`
	Items         []MatchResult `json:"items"`
	TotalEligible int           `json:"total_eligible"`
	Limit         int           `json:"limit"`
	Offset        int           `json:"offset"`
	// AnchorStale is set when the query entity's own vector could not be refreshed.
	AnchorStale bool `json:"anchor_stale"`
}
