package models

import "time"

// RestaurantBlock holds the meal-keyed restaurant suggestions for one day.
// The three slices may point at the same window of candidates; the current
// builder reuses one window per day for all meals.
type RestaurantBlock struct {
	Breakfast []PlaceRecord `json:"breakfast"`
	Lunch     []PlaceRecord `json:"lunch"`
	Dinner    []PlaceRecord `json:"dinner"`
}

// DayPlan is one day's worth of pre-selected candidates handed to the
// generation step. LodgingOptions is populated for day 1 only.
type DayPlan struct {
	Day            int             `json:"day"`
	Attractions    []PlaceRecord   `json:"attractions"`
	Restaurants    RestaurantBlock `json:"restaurants"`
	LodgingOptions []PlaceRecord   `json:"lodging_options"`
}

// Activity is a single scheduled item inside a day of the validated
// itinerary. Time is always zero-padded 24-hour HH:MM after normalization.
type Activity struct {
	Title           string  `json:"title"`
	Type            string  `json:"type"`
	Time            string  `json:"time"`
	Description     string  `json:"description,omitempty"`
	Location        string  `json:"location,omitempty"`
	EstimatedCost   float64 `json:"estimated_cost"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// DaySummary is computed per day after validation.
type DaySummary struct {
	TotalActivities int      `json:"total_activities"`
	EstimatedCost   float64  `json:"estimated_cost"`
	ActivityTypes   []string `json:"activity_types"`
}

// ScheduleDay is one validated day of the itinerary.
type ScheduleDay struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme,omitempty"`
	Activities []Activity `json:"activities"`
	Summary    DaySummary `json:"summary"`
}

// TripStatistics is computed trip-wide after validation.
type TripStatistics struct {
	TotalActivities     int      `json:"total_activities"`
	TotalEstimatedCost  float64  `json:"total_estimated_cost"`
	UniqueActivityTypes int      `json:"unique_activity_types"`
	ActivityTypes       []string `json:"activity_types"`
}

// TripOverview is the itinerary header block.
type TripOverview struct {
	Title       string         `json:"title"`
	Destination string         `json:"destination"`
	Duration    int            `json:"duration"`
	Statistics  TripStatistics `json:"statistics"`
}

// BudgetCategory is the normalized {total} shape every budget category is
// coerced into, whether the model emitted a bare number or an object.
type BudgetCategory struct {
	Total float64 `json:"total"`
}

// BudgetBreakdown has a fixed category set plus the computed grand total.
type BudgetBreakdown struct {
	Accommodation  BudgetCategory `json:"accommodation"`
	Food           BudgetCategory `json:"food"`
	Activities     BudgetCategory `json:"activities"`
	Transportation BudgetCategory `json:"transportation"`
	Miscellaneous  BudgetCategory `json:"miscellaneous"`
	GrandTotal     float64        `json:"grand_total"`
}

// ItineraryMetadata describes how and when the document was produced.
type ItineraryMetadata struct {
	PlanID          string    `json:"plan_id,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
	Version         string    `json:"version"`
	ConfidenceScore float64   `json:"confidence_score"`
}

// ItineraryDocument is the schema-valid result of validating raw model
// output. It is never mutated after validation; refinement produces a new
// document.
type ItineraryDocument struct {
	TripOverview       TripOverview      `json:"trip_overview"`
	DailySchedule      []ScheduleDay     `json:"daily_schedule"`
	BudgetBreakdown    BudgetBreakdown   `json:"budget_breakdown"`
	TravelTips         []string          `json:"travel_tips,omitempty"`
	PackingSuggestions []string          `json:"packing_suggestions,omitempty"`
	EmergencyInfo      map[string]string `json:"emergency_info,omitempty"`
	Metadata           ItineraryMetadata `json:"metadata"`
}
