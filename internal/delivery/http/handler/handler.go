package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/user/reel-locator/internal/delivery/http/request"
	"github.com/user/reel-locator/internal/delivery/http/response"
	"github.com/user/reel-locator/internal/entity"
	"github.com/user/reel-locator/internal/usecase"
	"github.com/user/reel-locator/pkg/metrics"
)

// Diagnostics describes the configured capabilities reported by /test.
type Diagnostics struct {
	Providers    map[string]bool
	EntityTagger string
}

type Handler struct {
	locator   usecase.Locator
	locations usecase.LocationService
	diag      Diagnostics
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(locator usecase.Locator, locations usecase.LocationService, diag Diagnostics, logger *zap.Logger) *Handler {
	return &Handler{
		locator:   locator,
		locations: locations,
		diag:      diag,
		logger:    logger,
		now:       time.Now,
	}
}

// StatusFor maps a resolution source to its HTTP status code.
func StatusFor(source entity.Source) int {
	switch source {
	case entity.SourceValidationError, entity.SourceRequestError:
		return http.StatusBadRequest
	case entity.SourceExtractionFailed, entity.SourceNoLocationFound,
		entity.SourceCoordinatesNotFound, entity.SourceShortcutError:
		return http.StatusUnprocessableEntity
	case entity.SourceProcessingError, entity.SourceServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func (h *Handler) HandleGetLocation(w http.ResponseWriter, r *http.Request) {
	var req request.GetLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ResolutionsTotal.WithLabelValues(string(entity.SourceRequestError)).Inc()
		h.writeJSON(w, http.StatusBadRequest, &entity.Resolution{
			LocationText: "Invalid request format",
			Error:        "JSON data required",
			Source:       entity.SourceRequestError,
		})
		return
	}

	res := h.locator.Locate(r.Context(), req.ReelURL)
	h.logger.Info("Resolution complete",
		zap.String("source", string(res.Source)),
		zap.Bool("located", res.Located()),
	)
	h.writeJSON(w, StatusFor(res.Source), res)
}

func (h *Handler) HandleSaveLocation(w http.ResponseWriter, r *http.Request) {
	var req request.SaveLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InstagramURL == "" || req.LocationData == nil {
		h.writeJSONError(w, "Invalid data format", http.StatusBadRequest)
		return
	}

	record, err := h.locations.Save(r.Context(), req.InstagramURL, *req.LocationData)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRecord) {
			h.writeJSONError(w, "Invalid data format", http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to save location", zap.String("url", req.InstagramURL), zap.Error(err))
		h.writeJSONError(w, "Failed to save to database", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.SaveLocationResponse{Status: "success", ID: record.ID})
}

func (h *Handler) HandleNearbyLocations(w http.ResponseWriter, r *http.Request) {
	maxKm := parseRadius(r.URL.Query().Get("max_distance"))

	records, err := h.locations.Nearby(r.Context(), maxKm)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRadius) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to get nearby locations", zap.Float64("max_distance", maxKm), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]response.NearbyLocation, 0, len(records))
	for _, rec := range records {
		out = append(out, response.NearbyLocation{InstagramURL: rec.InstagramURL, LocationData: rec.Location})
	}
	h.logger.Info("Returning nearby locations", zap.Float64("max_distance", maxKm), zap.Int("count", len(out)))
	h.writeJSON(w, http.StatusOK, out)
}

// parseRadius falls back to the default radius when raw is absent or not a number.
func parseRadius(raw string) float64 {
	if raw == "" {
		return usecase.DefaultNearbyRadiusKm
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return usecase.DefaultNearbyRadiusKm
	}
	return v
}

func (h *Handler) HandleTest(w http.ResponseWriter, r *http.Request) {
	count, err := h.locations.Count(r.Context())
	if err != nil {
		h.logger.Warn("Failed to count stored locations", zap.Error(err))
		count = -1
	}
	h.writeJSON(w, http.StatusOK, response.TestResponse{
		Status:          "working",
		Message:         "Reel locator is running successfully",
		Timestamp:       h.now(),
		APIsConfigured:  h.diag.Providers,
		EntityTagger:    h.diag.EntityTagger,
		StoredLocations: count,
		YourPosition:    h.locations.ReferencePoint(),
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
