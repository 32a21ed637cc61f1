package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-simulator/internal/middleware"
)

// NewRouter wires the public endpoints. Only /fleet is rate limited.
func NewRouter(registry Registry, routes RouteSource, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/fleet", limiter.Limit(NewFleetHandler(registry)))
	mux.Handle("/routes", NewRoutesHandler(routes))
	mux.Handle("/health", Health(registry))
	return middleware.Logging(mux)
}
