package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVehicleType is returned for a type tag outside the closed set.
var ErrUnknownVehicleType = errors.New("unknown vehicle type")

// VehicleType is a vehicle category with its base cruising speed.
type VehicleType string

const (
	VehicleTypeBike      VehicleType = "BIKE"
	VehicleTypeMotorbike VehicleType = "MOTORBIKE"
)

var baseSpeeds = map[VehicleType]float64{
	VehicleTypeBike:      15.0,
	VehicleTypeMotorbike: 45.0,
}

// BaseSpeedKph returns the cruising speed in km/h, or 0 for an unknown type.
func (t VehicleType) BaseSpeedKph() float64 {
	return baseSpeeds[t]
}

// ParseVehicleType maps a config tag such as "bike" to its VehicleType.
func ParseVehicleType(tag string) (VehicleType, error) {
	t := VehicleType(strings.ToUpper(strings.TrimSpace(tag)))
	if _, ok := baseSpeeds[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVehicleType, tag)
	}
	return t, nil
}

// VehicleConfig binds a vehicle identity to a trip and a behavior policy.
type VehicleConfig struct {
	ID        string `bson:"_id" json:"id" mapstructure:"id"`
	Type      string `bson:"type" json:"type" mapstructure:"type"`
	TripID    string `bson:"trip_id" json:"tripId" mapstructure:"tripId"`
	Reverse   bool   `bson:"reverse" json:"reverse,omitempty" mapstructure:"reverse"`
	Oscillate bool   `bson:"oscillate" json:"oscillate,omitempty" mapstructure:"oscillate"`
}

// VehicleID is the identity reported on the wire. Reverse runs get a "-R"
// suffix so both directions of the same vehicle can be told apart.
func (c VehicleConfig) VehicleID() string {
	if c.Reverse {
		return c.ID + "-R"
	}
	return c.ID
}

// Fleet is the fleet-assignment document.
type Fleet struct {
	Vehicles []VehicleConfig `json:"vehicles" mapstructure:"vehicles"`
}
