package models

// Requests for the signals HTTP endpoints. Defined in domain for
// consistency and reuse.

type SignalsRequest struct {
	Category string `query:"category" json:"category"`
	MinScore *int   `query:"min_score" json:"min_score" validate:"omitempty,gte=-3,lte=3"`
	MaxScore *int   `query:"max_score" json:"max_score" validate:"omitempty,gte=-3,lte=3"`
	SortBy   string `query:"sort_by" json:"sort_by" default:"score" validate:"oneof=score symbol price change_24h"`
	SortDir  string `query:"sort_dir" json:"sort_dir" default:"desc" validate:"oneof=asc desc"`
	Limit    int    `query:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// SignalsResponse wraps a filtered view over the published batch.
type SignalsResponse struct {
	GeneratedAt  string          `json:"generated_at"`
	TotalResults int             `json:"total_results"`
	Filters      SignalsRequest  `json:"filters_applied"`
	Assets       []SignalRecord  `json:"assets"`
}

// RefreshResponse reports whether a new cycle started or an in-flight
// cycle was joined.
type RefreshResponse struct {
	Started     bool   `json:"started"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

// CategoryBreakdown is per-category signal counts.
type CategoryBreakdown struct {
	Count   int `json:"count"`
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}
