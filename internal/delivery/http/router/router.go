package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/delivery/http/handler"
	"github.com/user/reel-locator/internal/delivery/http/middleware"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/api/health", h.HandleHealthCheck)
	r.Get("/test", h.HandleTest)
	r.Get("/get_nearby_locations", h.HandleNearbyLocations)
	r.Post("/save_location", h.HandleSaveLocation)
	// Each provider call is bounded by its own timeout; the route itself has none.
	r.Post("/get_location", h.HandleGetLocation)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
