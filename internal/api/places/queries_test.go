package places

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCatalog_TouristQueries(t *testing.T) {
	catalog := NewQueryCatalog(nil)

	t.Run("known preferences use configured lists", func(t *testing.T) {
		queries := catalog.TouristQueries([]string{"Culture"})
		assert.Equal(t, []string{"cultural sites", "museums", "heritage locations"}, queries)
	})

	t.Run("unknown preferences get a generic attractions query", func(t *testing.T) {
		queries := catalog.TouristQueries([]string{"Stargazing"})
		assert.Equal(t, []string{"stargazing attractions"}, queries)
	})

	t.Run("lookup survives case and whitespace differences", func(t *testing.T) {
		queries := catalog.TouristQueries([]string{"  cULTure "})
		assert.Equal(t, []string{"cultural sites", "museums", "heritage locations"}, queries)
	})

	t.Run("capped and deduplicated", func(t *testing.T) {
		queries := catalog.TouristQueries([]string{"Culture", "Culture", "Nature", "Adventure", "Relaxation"})
		assert.LessOrEqual(t, len(queries), maxTouristQueries)
		seen := map[string]int{}
		for _, q := range queries {
			seen[q]++
		}
		for q, n := range seen {
			assert.Equal(t, 1, n, "duplicate query %q", q)
		}
	})
}

func TestQueryCatalog_RestaurantQueries(t *testing.T) {
	catalog := NewQueryCatalog(nil)

	t.Run("tier drives the base list", func(t *testing.T) {
		queries := catalog.RestaurantQueries("luxury", nil)
		require.NotEmpty(t, queries)
		assert.Equal(t, "fine dining restaurants", queries[0])
	})

	t.Run("unknown tier falls back to moderate", func(t *testing.T) {
		assert.Equal(t,
			catalog.RestaurantQueries("moderate", nil),
			catalog.RestaurantQueries("mid-tier", nil))
	})

	t.Run("cuisine preferences extend the list up to the cap", func(t *testing.T) {
		queries := catalog.RestaurantQueries("budget", []string{"Romantic"})
		assert.LessOrEqual(t, len(queries), maxRestaurantQueries)
	})
}

func TestQueryCatalog_LodgingQueries(t *testing.T) {
	catalog := NewQueryCatalog(nil)

	t.Run("tier drives the base list", func(t *testing.T) {
		queries := catalog.LodgingQueries("budget", nil)
		require.NotEmpty(t, queries)
		assert.Contains(t, queries, "hostels")
	})

	t.Run("eco preference adds lodging flavors", func(t *testing.T) {
		queries := catalog.LodgingQueries("moderate", []string{"eco-friendly travel"})
		assert.LessOrEqual(t, len(queries), maxLodgingQueries)
		assert.Contains(t, queries, "eco hotels")
	})
}

func TestNewQueryCatalog_ConfigOverride(t *testing.T) {
	v := viper.New()
	v.Set("preference_queries", map[string][]string{
		"culture": {"opera houses"},
	})

	catalog := NewQueryCatalog(v)
	assert.Equal(t, []string{"opera houses"}, catalog.TouristQueries([]string{"Culture"}))
}
