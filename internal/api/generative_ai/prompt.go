package generativeAI

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// BuildItineraryPrompt assembles the generation prompt from the request,
// the day-wise place plan and the forecast. The model is instructed to use
// only the supplied places and to answer with JSON only.
func BuildItineraryPrompt(req models.PlanRequest, plans []models.DayPlan, forecast *models.Forecast) string {
	destination := req.Destination
	if destination == "" {
		destination = "an amazing place"
	}
	days := req.DurationDays
	if days < 1 {
		days = 3
	}
	groupSize := req.GroupSize
	if groupSize < 1 {
		groupSize = 1
	}
	budget := req.Budget
	if budget == "" {
		budget = "moderate"
	}
	travelStyle := req.TravelStyle
	if travelStyle == "" {
		travelStyle = "balanced"
	}
	preferences := "General travel"
	if len(req.Preferences) > 0 {
		preferences = strings.Join(req.Preferences, ", ")
	}

	plansJSON, _ := json.Marshal(plans)
	weatherJSON := []byte("null")
	if forecast != nil {
		weatherJSON, _ = json.Marshal(forecast)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a senior travel planner AI. Generate a detailed %d-day itinerary for %s for %d people.\n\n", days, destination, groupSize)
	fmt.Fprintf(&b, "Travel Style: %s\nBudget: %s\nPreferences: %s\n\n", travelStyle, budget, preferences)
	b.WriteString("You are given a structured day-wise \"places_plan\" (attractions, restaurants and lodging per day) and a \"weather\" forecast.\n")
	b.WriteString("Use ONLY these places for the main itinerary; do not invent new hotels or key attractions. Minor filler activities are allowed.\n\n")
	fmt.Fprintf(&b, "### places_plan (INPUT DATA)\n%s\n\n", plansJSON)
	fmt.Fprintf(&b, "### weather (INPUT DATA)\n%s\n\n", weatherJSON)
	b.WriteString("### HARD RULES\n\n")
	fmt.Fprintf(&b, "1. Generate exactly %d entries in \"daily_schedule\", one per day, each with a 1-based \"day\" number and an \"activities\" list.\n", days)
	b.WriteString("2. Each day's activities must use that day's attractions exactly once each; never repeat an attraction within the same day.\n")
	b.WriteString("3. Every activity needs \"title\", \"type\", \"time\" (24-hour HH:MM), \"estimated_cost\" and \"duration_minutes\".\n")
	b.WriteString("4. Insert breakfast, lunch and dinner breaks drawn from that day's restaurants.\n")
	b.WriteString("5. Include a \"trip_overview\" object with \"title\", \"destination\" and \"duration\".\n")
	b.WriteString("6. Include a \"budget_breakdown\" object with numeric totals for accommodation, food, activities, transportation and miscellaneous.\n")
	b.WriteString("7. Use the forecast to add \"packing_suggestions\" and \"travel_tips\" lists, plus an \"emergency_info\" object.\n\n")
	b.WriteString("Return valid JSON ONLY. Do not include any text outside the JSON object.\n")
	return b.String()
}

// BuildRefinePrompt asks the model for a fresh itinerary document that
// incorporates feedback on a previously generated one.
func BuildRefinePrompt(prior *models.ItineraryDocument, feedback string) string {
	priorJSON, _ := json.Marshal(prior)

	var b strings.Builder
	b.WriteString("You are a senior travel planner AI. Refine the itinerary below according to the traveler's feedback.\n\n")
	fmt.Fprintf(&b, "### current_itinerary (INPUT DATA)\n%s\n\n", priorJSON)
	fmt.Fprintf(&b, "### feedback\n%s\n\n", feedback)
	b.WriteString("Keep the same JSON schema as the input itinerary: \"trip_overview\", \"daily_schedule\" and \"budget_breakdown\" are required.\n")
	b.WriteString("Return the complete refined itinerary as valid JSON ONLY, with no text outside the JSON object.\n")
	return b.String()
}
