package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Sayan-Mondal2022/travAi/app/observability/metrics"
	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

const (
	schemaVersion = "1.1"

	defaultTitle = "Activity"
	defaultType  = "sightseeing"
	defaultTime  = "09:00"

	// sampleLimit bounds how much of a malformed response a ParseError
	// carries for diagnostics.
	sampleLimit = 500
)

// ParseError is the only failure ParseItinerary can surface: no JSON object
// could be located in the model output. Sample holds a truncated slice of
// the offending text.
type ParseError struct {
	Sample string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing model response: %v", e.Err)
	}
	return "parsing model response: no JSON object found"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser validates and normalizes raw generative-model output into a
// schema-valid ItineraryDocument. Every step after JSON extraction is
// total: a syntactically valid but structurally incomplete response always
// yields a usable, if degraded, document.
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger, now: time.Now}
}

// ParseItinerary turns raw model text into a validated document. It fails
// only when no parsable JSON object can be extracted from the text.
func (p *Parser) ParseItinerary(ctx context.Context, raw string) (*models.ItineraryDocument, error) {
	loose, err := extractJSON(raw)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to extract JSON from model response",
			slog.Any("error", err))
		return nil, err
	}

	doc := &models.ItineraryDocument{}
	p.normalizeOverview(ctx, loose, doc)
	p.normalizeSchedule(ctx, loose, doc)
	p.normalizeBudget(ctx, loose, doc)
	p.normalizeAdvisory(loose, doc)

	sortSchedule(doc)
	addDerivedStatistics(doc)

	doc.Metadata = models.ItineraryMetadata{
		GeneratedAt:     p.now(),
		Version:         schemaVersion,
		ConfidenceScore: confidenceScore(doc),
	}

	p.logger.InfoContext(ctx, "Parsed and validated itinerary response",
		slog.Int("days", len(doc.DailySchedule)),
		slog.Float64("confidence", doc.Metadata.ConfidenceScore))
	return doc, nil
}

// extractJSON strips code fences, locates the first '{' and last '}', and
// decodes that span. The model may wrap its JSON in prose or markdown.
func extractJSON(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last <= first {
		return nil, &ParseError{Sample: truncate(raw)}
	}

	var loose map[string]any
	if err := json.Unmarshal([]byte(text[first:last+1]), &loose); err != nil {
		return nil, &ParseError{Sample: truncate(raw), Err: err}
	}
	return loose, nil
}

func truncate(s string) string {
	if len(s) <= sampleLimit {
		return s
	}
	cut := sampleLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (p *Parser) normalizeOverview(ctx context.Context, loose map[string]any, doc *models.ItineraryDocument) {
	overview, ok := loose["trip_overview"].(map[string]any)
	if !ok {
		schedule, _ := loose["daily_schedule"].([]any)
		doc.TripOverview = models.TripOverview{
			Title:       "Generated Trip",
			Destination: "Unknown",
			Duration:    len(schedule),
		}
		metrics.RecordStructuralDefault(ctx, "trip_overview")
		return
	}
	doc.TripOverview = models.TripOverview{
		Title:       stringOr(overview["title"], "Generated Trip"),
		Destination: stringOr(overview["destination"], "Unknown"),
		Duration:    int(coerceFloat(overview["duration"])),
	}
}

func (p *Parser) normalizeSchedule(ctx context.Context, loose map[string]any, doc *models.ItineraryDocument) {
	rawSchedule, ok := loose["daily_schedule"].([]any)
	if !ok {
		doc.DailySchedule = []models.ScheduleDay{}
		metrics.RecordStructuralDefault(ctx, "daily_schedule")
		return
	}

	for idx, rawDay := range rawSchedule {
		day, ok := rawDay.(map[string]any)
		if !ok {
			// Malformed day entries are skipped, not fatal.
			continue
		}

		scheduled := models.ScheduleDay{
			Day:   idx + 1,
			Theme: stringOr(day["theme"], ""),
		}
		if n := coerceFloat(day["day"]); n > 0 {
			scheduled.Day = int(n)
		} else {
			metrics.RecordStructuralDefault(ctx, "day_number")
		}

		activities, ok := day["activities"].([]any)
		if !ok {
			scheduled.Activities = []models.Activity{}
			metrics.RecordStructuralDefault(ctx, "activities")
		} else {
			for _, rawActivity := range activities {
				activity, ok := rawActivity.(map[string]any)
				if !ok {
					continue
				}
				scheduled.Activities = append(scheduled.Activities, normalizeActivity(activity))
			}
		}

		doc.DailySchedule = append(doc.DailySchedule, scheduled)
	}
	if doc.DailySchedule == nil {
		doc.DailySchedule = []models.ScheduleDay{}
	}
}

func normalizeActivity(raw map[string]any) models.Activity {
	return models.Activity{
		Title:           stringOr(raw["title"], defaultTitle),
		Type:            stringOr(raw["type"], defaultType),
		Time:            NormalizeTime(stringOr(raw["time"], defaultTime)),
		Description:     stringOr(raw["description"], ""),
		Location:        stringOr(raw["location"], ""),
		EstimatedCost:   coerceFloat(raw["estimated_cost"]),
		DurationMinutes: coerceFloat(raw["duration_minutes"]),
	}
}

var (
	twelveHourRe     = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{1,2}))?\s*(AM|PM)\s*$`)
	twentyFourHourRe = regexp.MustCompile(`^\s*(\d{1,2})\s*:\s*(\d{1,2})\s*$`)
)

// NormalizeTime converts H:MM, HH:MM and 12-hour H[:MM] AM/PM forms into
// zero-padded 24-hour HH:MM. Unrecognized input defaults to 09:00, so the
// fixed-width format makes a lexicographic sort chronological.
func NormalizeTime(raw string) string {
	if m := twelveHourRe.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return defaultTime
		}
		hour = hour % 12
		if strings.EqualFold(m[3], "PM") {
			hour += 12
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	if m := twentyFourHourRe.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return defaultTime
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	return defaultTime
}

// coerceFloat converts numbers, numeric strings and json.Number values to
// float64, defaulting to 0 on anything else.
func coerceFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringOr(value any, fallback string) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// budgetCategories is the fixed category set every budget breakdown is
// normalized onto.
var budgetCategories = []string{"accommodation", "food", "activities", "transportation", "miscellaneous"}

func (p *Parser) normalizeBudget(ctx context.Context, loose map[string]any, doc *models.ItineraryDocument) {
	rawBudget, ok := loose["budget_breakdown"].(map[string]any)
	if !ok {
		rawBudget = map[string]any{}
		metrics.RecordStructuralDefault(ctx, "budget_breakdown")
	}

	totals := make(map[string]float64, len(budgetCategories))
	var grandTotal float64
	for _, category := range budgetCategories {
		total := coerceBudgetTotal(rawBudget[category])
		totals[category] = total
		grandTotal += total
	}

	doc.BudgetBreakdown = models.BudgetBreakdown{
		Accommodation:  models.BudgetCategory{Total: totals["accommodation"]},
		Food:           models.BudgetCategory{Total: totals["food"]},
		Activities:     models.BudgetCategory{Total: totals["activities"]},
		Transportation: models.BudgetCategory{Total: totals["transportation"]},
		Miscellaneous:  models.BudgetCategory{Total: totals["miscellaneous"]},
		GrandTotal:     grandTotal,
	}
}

// coerceBudgetTotal accepts a bare number or an object carrying a total
// field, defaulting to zero otherwise.
func coerceBudgetTotal(value any) float64 {
	switch v := value.(type) {
	case map[string]any:
		return coerceFloat(v["total"])
	default:
		return coerceFloat(v)
	}
}

func (p *Parser) normalizeAdvisory(loose map[string]any, doc *models.ItineraryDocument) {
	doc.TravelTips = coerceStringList(loose["travel_tips"])
	doc.PackingSuggestions = coerceStringList(loose["packing_suggestions"])

	if info, ok := loose["emergency_info"].(map[string]any); ok && len(info) > 0 {
		doc.EmergencyInfo = make(map[string]string, len(info))
		for k, v := range info {
			doc.EmergencyInfo[k] = fmt.Sprintf("%v", v)
		}
	}
}

// coerceStringList flattens a string, a list of strings, or an object of
// string lists (the packing_suggestions shape) into one []string.
func coerceStringList(value any) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var result []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				result = append(result, s)
			}
		}
		return result
	case map[string]any:
		var result []string
		for _, key := range []string{"summary", "recommended_items", "clothing"} {
			result = append(result, coerceStringList(v[key])...)
		}
		return result
	default:
		return nil
	}
}

func sortSchedule(doc *models.ItineraryDocument) {
	sort.SliceStable(doc.DailySchedule, func(i, j int) bool {
		return doc.DailySchedule[i].Day < doc.DailySchedule[j].Day
	})
	for i := range doc.DailySchedule {
		activities := doc.DailySchedule[i].Activities
		sort.SliceStable(activities, func(a, b int) bool {
			return activities[a].Time < activities[b].Time
		})
	}
}

func addDerivedStatistics(doc *models.ItineraryDocument) {
	var (
		totalActivities int
		totalCost       float64
		tripTypes       = map[string]struct{}{}
	)

	for i := range doc.DailySchedule {
		day := &doc.DailySchedule[i]

		dayTypes := map[string]struct{}{}
		var dayCost float64
		for _, activity := range day.Activities {
			dayCost += activity.EstimatedCost
			dayTypes[activity.Type] = struct{}{}
			tripTypes[activity.Type] = struct{}{}
		}

		day.Summary = models.DaySummary{
			TotalActivities: len(day.Activities),
			EstimatedCost:   dayCost,
			ActivityTypes:   sortedKeys(dayTypes),
		}
		totalActivities += len(day.Activities)
		totalCost += dayCost
	}

	doc.TripOverview.Statistics = models.TripStatistics{
		TotalActivities:     totalActivities,
		TotalEstimatedCost:  totalCost,
		UniqueActivityTypes: len(tripTypes),
		ActivityTypes:       sortedKeys(tripTypes),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// confidenceScore rates document completeness 0-100: the three required
// sections, activity density (capped at an average of three activities per
// day), and optional advisory sections. Monotone in each factor and
// saturating at 100.
func confidenceScore(doc *models.ItineraryDocument) float64 {
	var score float64

	if doc.TripOverview.Title != "" {
		score += 15
	}
	if len(doc.DailySchedule) > 0 {
		score += 15
	}
	if doc.BudgetBreakdown.GrandTotal > 0 {
		score += 15
	}

	if days := len(doc.DailySchedule); days > 0 {
		var activities int
		for _, day := range doc.DailySchedule {
			activities += len(day.Activities)
		}
		density := float64(activities) / float64(days) * 10
		if density > 30 {
			density = 30
		}
		score += density
	}

	if len(doc.TravelTips) > 0 {
		score += 5
	}
	if len(doc.PackingSuggestions) > 0 {
		score += 5
	}
	if len(doc.EmergencyInfo) > 0 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return float64(int(score*100+0.5)) / 100
}
