package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

func ratingPtr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	records := []models.PlaceRecord{
		{ID: "p1", Name: "National Art Museum", Types: []string{"museum"}},
		{ID: "p2", Name: "Riverside Nature Park", Types: []string{"park"}},
		{ID: "p3", Name: "Downtown Casino", Types: []string{"casino"}},
	}

	t.Run("no preferences puts everything under General", func(t *testing.T) {
		grouped := Classify(records, nil)
		require.Len(t, grouped, 2)
		assert.Len(t, grouped[models.GeneralGroup], 3)
		assert.Empty(t, grouped[models.OthersGroup])
	})

	t.Run("first match wins in preference order", func(t *testing.T) {
		// "Museum" appears in p1's name; order decides which group claims
		// a record matching several preferences.
		grouped := Classify(records, []string{"museum", "park"})
		require.Len(t, grouped[models.OthersGroup], 1)
		assert.Equal(t, "p3", grouped[models.OthersGroup][0].ID)
		require.Len(t, grouped["museum"], 1)
		assert.Equal(t, "p1", grouped["museum"][0].ID)
		assert.Equal(t, "museum", grouped["museum"][0].Preference)
		require.Len(t, grouped["park"], 1)
		assert.Equal(t, "p2", grouped["park"][0].ID)
	})

	t.Run("matching is case-insensitive over all text fields", func(t *testing.T) {
		rec := []models.PlaceRecord{{
			ID:               "p4",
			Name:             "Quiet Courtyard",
			EditorialSummary: "A hidden GARDEN behind the cathedral",
		}}
		grouped := Classify(rec, []string{"garden"})
		assert.Len(t, grouped["garden"], 1)
	})

	t.Run("every preference gets a group even when empty", func(t *testing.T) {
		grouped := Classify(nil, []string{"museum", "park"})
		assert.NotNil(t, grouped["museum"])
		assert.NotNil(t, grouped["park"])
		assert.NotNil(t, grouped[models.OthersGroup])
	})
}

func TestFlatten(t *testing.T) {
	grouped := models.PreferenceGroup{
		"museum":           {{ID: "p1"}, {ID: "p2"}},
		"park":             {{ID: "p2"}, {ID: "p3"}},
		models.OthersGroup: {{ID: "p4"}},
	}

	t.Run("preference order then others, duplicates dropped", func(t *testing.T) {
		flat := Flatten(grouped, []string{"museum", "park"})
		ids := make([]string, 0, len(flat))
		for _, r := range flat {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids)
	})

	t.Run("general group leads when no preferences", func(t *testing.T) {
		flat := Flatten(models.PreferenceGroup{
			models.GeneralGroup: {{ID: "g1"}},
			models.OthersGroup:  {{ID: "o1"}},
		}, nil)
		require.Len(t, flat, 2)
		assert.Equal(t, "g1", flat[0].ID)
		assert.Equal(t, "o1", flat[1].ID)
	})

	t.Run("name stands in for a missing id", func(t *testing.T) {
		flat := Flatten(models.PreferenceGroup{
			models.GeneralGroup: {{Name: "Unnamed Square"}, {Name: "Unnamed Square"}, {}},
		}, nil)
		assert.Len(t, flat, 1)
	})
}

func TestRankByRating(t *testing.T) {
	records := []models.PlaceRecord{
		{ID: "low", Rating: ratingPtr(3.9)},
		{ID: "unrated"},
		{ID: "high", Rating: ratingPtr(4.8)},
		{ID: "mid-a", Rating: ratingPtr(4.2)},
		{ID: "mid-b", Rating: ratingPtr(4.2)},
	}

	ranked := RankByRating(records)
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	// Descending by rating, ties keep input order, unrated records last.
	assert.Equal(t, []string{"high", "mid-a", "mid-b", "low", "unrated"}, ids)

	// Input slice untouched.
	assert.Equal(t, "low", records[0].ID)
}
