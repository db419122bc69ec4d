package itinerary

import (
	"github.com/Sayan-Mondal2022/travAi/internal/api/places"
	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

const (
	attractionsPerDay = 5
	mealWindowSize    = 3
	maxLodgingOptions = 5
)

// BuildDayPlans distributes grouped candidates into a fixed-shape day-wise
// plan. It is pure: fetching and classification already happened. Per day
// it selects attractionsPerDay consecutive entries from the ranked
// attraction pool (wrapping around when the pool is smaller than
// days*attractionsPerDay), one window of three restaurants reused for all
// three meals, and lodging on day 1 only.
func BuildDayPlans(reference models.ReferencePlaces, preferences []string, days int) []models.DayPlan {
	if days < 1 {
		return nil
	}

	attractions := rankPool(reference.TouristAttractions, preferences)
	restaurants := rankPool(reference.Restaurants, preferences)
	lodging := rankPool(reference.Lodging, preferences)

	plans := make([]models.DayPlan, 0, days)
	for dayIdx := 0; dayIdx < days; dayIdx++ {
		plan := models.DayPlan{Day: dayIdx + 1}

		if len(attractions) > 0 {
			start := dayIdx * attractionsPerDay
			for i := 0; i < attractionsPerDay; i++ {
				plan.Attractions = append(plan.Attractions, attractions[(start+i)%len(attractions)])
			}
		}

		window := mealWindow(restaurants, dayIdx)
		plan.Restaurants = models.RestaurantBlock{
			Breakfast: window,
			Lunch:     window,
			Dinner:    window,
		}

		if plan.Day == 1 {
			limit := maxLodgingOptions
			if len(lodging) < limit {
				limit = len(lodging)
			}
			plan.LodgingOptions = lodging[:limit]
		} else {
			plan.LodgingOptions = []models.PlaceRecord{}
		}

		plans = append(plans, plan)
	}
	return plans
}

// rankPool flattens a preference grouping into a single deduplicated list
// and orders it by rating.
func rankPool(grouped models.PreferenceGroup, preferences []string) []models.PlaceRecord {
	return places.RankByRating(places.Flatten(grouped, preferences))
}

// mealWindow returns the three-restaurant window for a day, advancing by
// three per day and falling back to the first three when the window would
// start past the end of the pool. The same window serves breakfast, lunch
// and dinner.
func mealWindow(restaurants []models.PlaceRecord, dayIdx int) []models.PlaceRecord {
	if len(restaurants) == 0 {
		return []models.PlaceRecord{}
	}
	start := dayIdx * mealWindowSize
	if start >= len(restaurants) {
		start = 0
	}
	end := start + mealWindowSize
	if end > len(restaurants) {
		end = len(restaurants)
	}
	return restaurants[start:end]
}
