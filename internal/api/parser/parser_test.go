package parser

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	return NewParser(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseItinerary_Extraction(t *testing.T) {
	ctx := context.Background()
	p := testParser()

	t.Run("strips markdown fences", func(t *testing.T) {
		doc, err := p.ParseItinerary(ctx, "```json\n{\"trip_overview\":{\"title\":\"Fenced\"}}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Fenced", doc.TripOverview.Title)
	})

	t.Run("ignores prose around the object", func(t *testing.T) {
		raw := `Here is your itinerary: {"trip_overview":{"title":"Wrapped"}} Enjoy!`
		doc, err := p.ParseItinerary(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, "Wrapped", doc.TripOverview.Title)
	})

	t.Run("no JSON object yields ParseError with sample", func(t *testing.T) {
		_, err := p.ParseItinerary(ctx, "I cannot help with that.")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "I cannot help with that.", parseErr.Sample)
	})

	t.Run("malformed JSON yields ParseError wrapping the syntax error", func(t *testing.T) {
		_, err := p.ParseItinerary(ctx, `{"trip_overview": `+"{broken}")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Error(t, parseErr.Unwrap())
	})

	t.Run("sample is truncated", func(t *testing.T) {
		long := make([]byte, 2*sampleLimit)
		for i := range long {
			long[i] = 'x'
		}
		_, err := p.ParseItinerary(ctx, string(long))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Len(t, parseErr.Sample, sampleLimit)
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		// A run of three-byte runes leaves the byte limit mid-rune; the
		// sample must end on a rune boundary.
		long := strings.Repeat("日", sampleLimit)
		_, err := p.ParseItinerary(ctx, long)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.True(t, utf8.ValidString(parseErr.Sample))
		assert.LessOrEqual(t, len(parseErr.Sample), sampleLimit)
		assert.NotEmpty(t, parseErr.Sample)
	})
}

func TestParseItinerary_StructuralDefaults(t *testing.T) {
	ctx := context.Background()
	p := testParser()

	t.Run("empty object still yields a document", func(t *testing.T) {
		doc, err := p.ParseItinerary(ctx, `{}`)
		require.NoError(t, err)
		assert.Equal(t, "Generated Trip", doc.TripOverview.Title)
		assert.Equal(t, "Unknown", doc.TripOverview.Destination)
		assert.NotNil(t, doc.DailySchedule)
		assert.Empty(t, doc.DailySchedule)
		assert.Zero(t, doc.BudgetBreakdown.GrandTotal)
	})

	t.Run("missing activity fields get defaults", func(t *testing.T) {
		raw := `{"daily_schedule":[{"day":1,"activities":[{}]}]}`
		doc, err := p.ParseItinerary(ctx, raw)
		require.NoError(t, err)
		require.Len(t, doc.DailySchedule, 1)
		require.Len(t, doc.DailySchedule[0].Activities, 1)
		activity := doc.DailySchedule[0].Activities[0]
		assert.Equal(t, "Activity", activity.Title)
		assert.Equal(t, "sightseeing", activity.Type)
		assert.Equal(t, "09:00", activity.Time)
	})

	t.Run("malformed day entries are skipped", func(t *testing.T) {
		raw := `{"daily_schedule":["not a day",{"day":1,"activities":[]}]}`
		doc, err := p.ParseItinerary(ctx, raw)
		require.NoError(t, err)
		assert.Len(t, doc.DailySchedule, 1)
	})

	t.Run("budget accepts bare numbers and objects", func(t *testing.T) {
		raw := `{"budget_breakdown":{"accommodation":{"total":300},"food":"150.5","activities":50}}`
		doc, err := p.ParseItinerary(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, 300.0, doc.BudgetBreakdown.Accommodation.Total)
		assert.Equal(t, 150.5, doc.BudgetBreakdown.Food.Total)
		assert.Equal(t, 50.0, doc.BudgetBreakdown.Activities.Total)
		assert.InDelta(t, 500.5, doc.BudgetBreakdown.GrandTotal, 0.001)
	})

	t.Run("packing suggestions flatten from an object shape", func(t *testing.T) {
		raw := `{"packing_suggestions":{"summary":"Pack light","recommended_items":["hat","sunscreen"]}}`
		doc, err := p.ParseItinerary(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"Pack light", "hat", "sunscreen"}, doc.PackingSuggestions)
	})
}

func TestParseItinerary_Ordering(t *testing.T) {
	ctx := context.Background()
	p := testParser()

	raw := `{"daily_schedule":[
		{"day":2,"activities":[{"title":"B","time":"8:00 AM"}]},
		{"day":1,"activities":[
			{"title":"Dinner","time":"7:30 PM"},
			{"title":"Walk","time":"2:5 PM"},
			{"title":"Coffee","time":"9:15"}
		]}
	]}`
	doc, err := p.ParseItinerary(ctx, raw)
	require.NoError(t, err)
	require.Len(t, doc.DailySchedule, 2)

	assert.Equal(t, 1, doc.DailySchedule[0].Day)
	times := make([]string, 0, 3)
	for _, a := range doc.DailySchedule[0].Activities {
		times = append(times, a.Time)
	}
	assert.Equal(t, []string{"09:15", "14:05", "19:30"}, times)
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"9:30":     "09:30",
		"14:05":    "14:05",
		"2:5 PM":   "14:05",
		"12:00 AM": "00:00",
		"12:30 PM": "12:30",
		"7 pm":     "19:00",
		" 8:15 AM": "08:15",
		"25:00":    "09:00",
		"10:75":    "09:00",
		"noonish":  "09:00",
		"":         "09:00",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeTime(input), "input %q", input)
	}
}

func TestParseItinerary_DerivedStatistics(t *testing.T) {
	ctx := context.Background()
	p := testParser()

	raw := `{"daily_schedule":[
		{"day":1,"activities":[
			{"title":"A","type":"sightseeing","estimated_cost":10},
			{"title":"B","type":"food","estimated_cost":25}
		]},
		{"day":2,"activities":[{"title":"C","type":"food","estimated_cost":5}]}
	]}`
	doc, err := p.ParseItinerary(ctx, raw)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.DailySchedule[0].Summary.TotalActivities)
	assert.Equal(t, 35.0, doc.DailySchedule[0].Summary.EstimatedCost)
	assert.Equal(t, []string{"food", "sightseeing"}, doc.DailySchedule[0].Summary.ActivityTypes)

	stats := doc.TripOverview.Statistics
	assert.Equal(t, 3, stats.TotalActivities)
	assert.Equal(t, 40.0, stats.TotalEstimatedCost)
	assert.Equal(t, 2, stats.UniqueActivityTypes)
}

func TestConfidenceScore(t *testing.T) {
	ctx := context.Background()
	p := testParser()

	t.Run("degraded document scores low", func(t *testing.T) {
		doc, err := p.ParseItinerary(ctx, `{}`)
		require.NoError(t, err)
		// Only the defaulted title contributes.
		assert.Equal(t, 15.0, doc.Metadata.ConfidenceScore)
	})

	t.Run("complete document scores high and caps at 100", func(t *testing.T) {
		raw := `{
			"trip_overview": {"title": "Full Trip", "destination": "Lisbon", "duration": 2},
			"daily_schedule": [
				{"day":1,"activities":[{"title":"A"},{"title":"B"},{"title":"C"},{"title":"D"}]},
				{"day":2,"activities":[{"title":"E"},{"title":"F"},{"title":"G"}]}
			],
			"budget_breakdown": {"food": 100},
			"travel_tips": ["tip"],
			"packing_suggestions": ["hat"],
			"emergency_info": {"police": "112"}
		}`
		doc, err := p.ParseItinerary(ctx, raw)
		require.NoError(t, err)
		// 15+15+15 for sections, 30 capped density, 15 advisory.
		assert.Equal(t, 90.0, doc.Metadata.ConfidenceScore)
	})

	t.Run("monotone in activity density", func(t *testing.T) {
		sparse, err := p.ParseItinerary(ctx, `{"daily_schedule":[{"day":1,"activities":[{"title":"A"}]}]}`)
		require.NoError(t, err)
		dense, err := p.ParseItinerary(ctx, `{"daily_schedule":[{"day":1,"activities":[{"title":"A"},{"title":"B"}]}]}`)
		require.NoError(t, err)
		assert.Greater(t, dense.Metadata.ConfidenceScore, sparse.Metadata.ConfidenceScore)
	})

	t.Run("version and timestamp are stamped", func(t *testing.T) {
		doc, err := p.ParseItinerary(ctx, `{}`)
		require.NoError(t, err)
		assert.Equal(t, schemaVersion, doc.Metadata.Version)
		assert.False(t, doc.Metadata.GeneratedAt.IsZero())
	})
}
