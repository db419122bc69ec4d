package models

// PlanRequest is the inbound request for a generated trip plan.
type PlanRequest struct {
	Destination  string   `json:"destination"`
	DurationDays int      `json:"duration_days"`
	Preferences  []string `json:"preferences,omitempty"`
	Budget       string   `json:"budget,omitempty"`
	GroupSize    int      `json:"group_size,omitempty"`
	TravelStyle  string   `json:"travel_style,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
}
