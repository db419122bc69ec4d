package models

// OthersGroup is the reserved bucket for records that match no preference.
// GeneralGroup is used when the caller supplied no preferences at all.
const (
	OthersGroup  = "_others"
	GeneralGroup = "General"
)

// Coordinates is a plain lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Landmark is a nearby named point attached to a place record.
type Landmark struct {
	DisplayName    string `json:"display_name"`
	DistanceMeters int    `json:"distance_meters,omitempty"`
}

// PlaceRecord is the normalized shape every source adapter produces.
// Records are immutable after fetch; the classifier only annotates
// Preference, it never rewrites the rest.
type PlaceRecord struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Types            []string     `json:"types,omitempty"`
	FormattedAddress string       `json:"formatted_address,omitempty"`
	Rating           *float64     `json:"rating,omitempty"`
	UserRatingCount  int          `json:"user_rating_count,omitempty"`
	PriceLevel       *int         `json:"price_level,omitempty"`
	EditorialSummary string       `json:"editorial_summary,omitempty"`
	ReviewSummary    string       `json:"review_summary,omitempty"`
	Landmarks        []Landmark   `json:"landmarks,omitempty"`
	Location         *Coordinates `json:"location,omitempty"`
	MapsURL          string       `json:"google_maps_url,omitempty"`
	DirectionsURL    string       `json:"directions_url,omitempty"`
	Photos           []string     `json:"photos,omitempty"`

	// Preference records which query produced this place. It is advisory
	// only and independent of the group the classifier puts it in.
	Preference string `json:"preference,omitempty"`
}

// PreferenceGroup maps a preference label (or OthersGroup/GeneralGroup) to
// the records classified under it. A place ID appears in at most one group
// per classification call.
type PreferenceGroup map[string][]PlaceRecord

// ReferencePlaces is the grouped candidate material for one destination,
// one map per place category. This is what gets cached between requests.
type ReferencePlaces struct {
	TouristAttractions PreferenceGroup `json:"tourist_attractions"`
	Restaurants        PreferenceGroup `json:"restaurants"`
	Lodging            PreferenceGroup `json:"lodging"`
}
