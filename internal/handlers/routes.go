package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/geo"
	"github.com/ukydev/fleet-simulator/internal/models"
)

// RouteSource returns the currently assembled routes.
type RouteSource interface {
	Routes() []models.Route
}

// RoutesHandler serves the assembled routes as a GeoJSON FeatureCollection.
type RoutesHandler struct {
	source RouteSource
}

func NewRoutesHandler(source RouteSource) *RoutesHandler {
	return &RoutesHandler{source: source}
}

func (h *RoutesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := geo.RoutesCollection(h.source.Routes()).MarshalJSON()
	if err != nil {
		log.WithError(err).Error("Failed to encode routes")
		http.Error(w, "Failed to encode routes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(body); err != nil {
		log.WithError(err).Debug("Failed to write routes response")
	}
}
