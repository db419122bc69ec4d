package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Sayan-Mondal2022/travAi/internal/api/itinerary"
	"github.com/Sayan-Mondal2022/travAi/internal/api/weather"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler *itinerary.Handler
	WeatherHandler   *weather.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to
// be applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/itinerary", cfg.ItineraryHandler.GeneratePlan)
		r.Post("/itinerary/refine", cfg.ItineraryHandler.RefinePlan)
		r.Get("/itinerary/cache/stats", cfg.ItineraryHandler.CacheStats)
		r.Delete("/itinerary/cache", cfg.ItineraryHandler.ClearCache)
		r.Get("/weather/current", cfg.WeatherHandler.GetCurrent)
	})

	return r
}
