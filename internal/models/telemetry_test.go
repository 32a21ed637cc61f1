package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTelemetryWireFields(t *testing.T) {
	tele := Telemetry{
		BikeID:      "bike-1",
		VehicleType: string(VehicleTypeBike),
		Lat:         18.79,
		Lng:         98.98,
		SpeedKph:    14.2,
		Timestamp:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(tele)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"bikeId", "vehicleType", "lat", "lng", "speedKph", "timestamp"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing field %q in %s", key, data)
		}
	}
	if len(out) != 6 {
		t.Errorf("expected 6 fields, got %d: %s", len(out), data)
	}
	if out["timestamp"] != "2024-05-01T10:00:00Z" {
		t.Errorf("unexpected timestamp %v", out["timestamp"])
	}
}

func TestSessionCountWireFormat(t *testing.T) {
	data, err := json.Marshal(NewSessionCount(3))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"type":"SESSION_COUNT","count":3}` {
		t.Errorf("unexpected session count message %s", data)
	}
}
