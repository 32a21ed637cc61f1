package simulator

import (
	"errors"

	"github.com/ukydev/fleet-simulator/internal/geo"
	"github.com/ukydev/fleet-simulator/internal/models"
)

// ErrEmptyRoute is returned when an engine is built on a route with no points.
var ErrEmptyRoute = errors.New("route has no points")

// speedVariance is the jitter applied to the base speed on every tick.
const speedVariance = 0.1

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// MovementEngine advances one vehicle along a route.
type MovementEngine struct {
	route        models.Route
	baseSpeedKph float64
	rng          RandomSource

	currentPointIndex int
	currentPosition   models.Coordinate
	currentSpeedKph   float64
}

// NewMovementEngine places a vehicle at the first point of route.
func NewMovementEngine(route models.Route, baseSpeedKph float64, rng RandomSource) (*MovementEngine, error) {
	if len(route.Points) == 0 {
		return nil, ErrEmptyRoute
	}
	return &MovementEngine{
		route:           route,
		baseSpeedKph:    baseSpeedKph,
		rng:             rng,
		currentPosition: route.Points[0],
		currentSpeedKph: baseSpeedKph,
	}, nil
}

// IsFinished reports whether the last waypoint has been reached.
func (e *MovementEngine) IsFinished() bool {
	return e.currentPointIndex >= len(e.route.Points)-1
}

// Tick moves the vehicle for secondsElapsed seconds and returns its new
// position. At most one waypoint is consumed per tick; the vehicle stops on
// the waypoint even when the distance budget would carry it further.
func (e *MovementEngine) Tick(secondsElapsed int) models.Coordinate {
	if e.IsFinished() {
		return e.route.Points[len(e.route.Points)-1]
	}

	variance := e.baseSpeedKph * speedVariance
	e.currentSpeedKph = e.baseSpeedKph + (e.rng.Float64()*2-1)*variance

	metersPerSecond := e.currentSpeedKph * 1000.0 / 3600.0
	traveled := metersPerSecond * float64(secondsElapsed)

	next := e.route.Points[e.currentPointIndex+1]
	remaining := geo.Distance(e.currentPosition, next)

	if traveled >= remaining {
		e.currentPointIndex++
		e.currentPosition = next
		return e.currentPosition
	}

	e.currentPosition = geo.Interpolate(e.currentPosition, next, traveled/remaining)
	return e.currentPosition
}

func (e *MovementEngine) CurrentPosition() models.Coordinate { return e.currentPosition }

func (e *MovementEngine) CurrentSpeedKph() float64 { return e.currentSpeedKph }

func (e *MovementEngine) CurrentPointIndex() int { return e.currentPointIndex }
