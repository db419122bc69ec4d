package places

import (
	"strings"
	"unicode"

	"github.com/spf13/viper"
)

const (
	maxTouristQueries    = 8
	maxRestaurantQueries = 5
	maxLodgingQueries    = 5
)

// fallbackPreferenceQueries covers the common preference labels when no
// preference_queries section is configured.
var fallbackPreferenceQueries = map[string][]string{
	"Adventure":      {"adventure activities", "outdoor adventures", "adventure sports"},
	"Relaxation":     {"spa centers", "peaceful spots", "relaxation venues"},
	"Culture":        {"cultural sites", "museums", "heritage locations"},
	"Food & Cuisine": {"local restaurants", "food spots", "dining places"},
	"Nature":         {"nature parks", "scenic spots", "natural attractions"},
}

var experienceRestaurantQueries = map[string][]string{
	"budget": {
		"budget restaurants", "cheap eats", "affordable dining",
		"street food", "local cheap restaurants", "fast food restaurants",
	},
	"moderate": {
		"good restaurants", "popular dining spots", "local cuisine restaurants",
		"mid-range restaurants", "family restaurants", "casual dining",
	},
	"luxury": {
		"fine dining restaurants", "luxury dining", "premium restaurants",
		"gourmet restaurants", "award-winning restaurants", "upscale restaurants",
	},
}

var experienceLodgingQueries = map[string][]string{
	"budget": {
		"budget hotels", "hostels", "affordable accommodation",
		"cheap hotels", "budget stays",
	},
	"moderate": {
		"comfortable hotels", "good hotels", "mid-range accommodation", "standard hotels",
	},
	"luxury": {
		"luxury hotels", "5-star hotels", "premium resorts",
		"boutique hotels", "deluxe accommodation",
	},
}

var cuisinePreferenceQueries = map[string][]string{
	"Food & Cuisine":    {"local cuisine restaurants", "food tours", "culinary experiences"},
	"Local Experiences": {"authentic local restaurants", "traditional dining"},
	"Romantic":          {"romantic restaurants", "candlelight dining", "intimate cafes"},
	"Adventure":         {"unique dining experiences", "adventure-themed restaurants"},
	"Culture":           {"traditional cultural restaurants", "ethnic cuisine"},
	"Nature":            {"restaurants with scenic views", "garden restaurants"},
	"Budget Travel":     {"budget restaurants", "affordable dining"},
}

// QueryCatalog generates the search queries fed to the place source for each
// candidate category. Preference query lists come from config with a
// hard-coded fallback.
type QueryCatalog struct {
	preferenceQueries map[string][]string
}

// NewQueryCatalog reads the preference_queries section from the given viper
// instance; a nil or empty section falls back to the built-in lists.
func NewQueryCatalog(v *viper.Viper) *QueryCatalog {
	catalog := &QueryCatalog{preferenceQueries: fallbackPreferenceQueries}
	if v != nil {
		configured := v.GetStringMapStringSlice("preference_queries")
		if len(configured) > 0 {
			// viper lower-cases map keys; re-title them so the lookup by
			// cleaned preference keeps working.
			queries := make(map[string][]string, len(configured))
			for k, val := range configured {
				queries[titleCase(k)] = val
			}
			catalog.preferenceQueries = queries
		}
	}
	return catalog
}

// TouristQueries builds attraction queries from travel preferences only.
func (q *QueryCatalog) TouristQueries(preferences []string) []string {
	var queries []string
	for _, preference := range preferences {
		clean := titleCase(strings.TrimSpace(preference))
		if configured, ok := q.preferenceQueries[clean]; ok {
			queries = append(queries, configured...)
		} else {
			queries = append(queries, strings.ToLower(preference)+" attractions")
		}
	}
	return dedupeQueries(queries, maxTouristQueries)
}

// RestaurantQueries builds restaurant queries keyed primarily on the
// experience tier, with cuisine-flavored preferences layered on top.
func (q *QueryCatalog) RestaurantQueries(experience string, preferences []string) []string {
	tier := normalizeExperience(experience)
	queries := append([]string(nil), experienceRestaurantQueries[tier]...)

	for _, preference := range preferences {
		clean := titleCase(strings.TrimSpace(preference))
		if extra, ok := cuisinePreferenceQueries[clean]; ok {
			queries = append(queries, extra...)
		}
	}
	return dedupeQueries(queries, maxRestaurantQueries)
}

// LodgingQueries builds lodging queries keyed primarily on the experience
// tier.
func (q *QueryCatalog) LodgingQueries(experience string, preferences []string) []string {
	tier := normalizeExperience(experience)
	queries := append([]string(nil), experienceLodgingQueries[tier]...)

	for _, preference := range preferences {
		switch titleCase(strings.TrimSpace(preference)) {
		case "Eco-Friendly Travel":
			queries = append(queries, "eco hotels", "sustainable accommodation")
		case "Relaxation":
			queries = append(queries, "spa resorts", "wellness hotels")
		}
	}
	return dedupeQueries(queries, maxLodgingQueries)
}

func normalizeExperience(experience string) string {
	tier := strings.ToLower(strings.TrimSpace(experience))
	if _, ok := experienceRestaurantQueries[tier]; !ok {
		return "moderate"
	}
	return tier
}

// dedupeQueries removes duplicates preserving first-seen order and caps the
// result.
func dedupeQueries(queries []string, limit int) []string {
	seen := make(map[string]struct{}, len(queries))
	unique := make([]string, 0, len(queries))
	for _, query := range queries {
		if _, ok := seen[query]; ok {
			continue
		}
		seen[query] = struct{}{}
		unique = append(unique, query)
	}
	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// titleCase upper-cases every letter that follows a non-letter, so
// hyphenated labels like "eco-friendly travel" become "Eco-Friendly Travel".
func titleCase(s string) string {
	runes := []rune(strings.ToLower(s))
	prevLetter := false
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if !prevLetter {
				runes[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(runes)
}
