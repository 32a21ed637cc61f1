package models

import "time"

// Telemetry is one position snapshot of one vehicle. The JSON field names are
// consumed by external dashboards and must not change.
type Telemetry struct {
	BikeID      string    `json:"bikeId"`
	VehicleType string    `json:"vehicleType"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	SpeedKph    float64   `json:"speedKph"`
	Timestamp   time.Time `json:"timestamp"`
}

const SessionCountType = "SESSION_COUNT"

// SessionCount announces the number of connected subscribers.
type SessionCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// NewSessionCount builds a SESSION_COUNT message.
func NewSessionCount(n int) SessionCount {
	return SessionCount{Type: SessionCountType, Count: n}
}
