package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/models"
)

// Publisher receives serialized telemetry. Publish must not block.
type Publisher interface {
	Publish(msg []byte)
}

// Timing holds the simulation-speed parameters of an actor.
type Timing struct {
	// Step is the simulated time per tick, in seconds.
	Step int
	// Interval is the wall-clock delay between ticks.
	Interval time.Duration
	// Settle is the pause between the end of one leg and the next.
	Settle time.Duration
}

// DefaultTiming ticks once per second and settles for two seconds.
func DefaultTiming() Timing {
	return Timing{Step: 1, Interval: time.Second, Settle: 2 * time.Second}
}

// ActorConfig describes one simulated vehicle.
type ActorConfig struct {
	VehicleID string
	Type      models.VehicleType
	Route     models.Route
	Oscillate bool
	Timing    Timing
	Rand      RandomSource
	Now       func() time.Time
}

// Actor drives one vehicle through an endless sequence of legs.
type Actor struct {
	cfg       ActorConfig
	publisher Publisher
	logger    *log.Entry
}

func NewActor(cfg ActorConfig, publisher Publisher) *Actor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Actor{
		cfg:       cfg,
		publisher: publisher,
		logger: log.WithFields(log.Fields{
			"vehicle_id": cfg.VehicleID,
			"type":       cfg.Type,
		}),
	}
}

// Run ticks the vehicle until ctx is cancelled. With Oscillate each leg runs
// the previous leg's route backwards; otherwise the vehicle restarts at the
// origin. Run only returns early when a leg cannot be started.
func (a *Actor) Run(ctx context.Context) error {
	route := a.cfg.Route

	for {
		engine, err := NewMovementEngine(route, a.cfg.Type.BaseSpeedKph(), a.cfg.Rand)
		if err != nil {
			a.logger.WithError(err).WithField("route_id", route.ID).Error("Cannot start leg")
			return fmt.Errorf("vehicle %s: %w", a.cfg.VehicleID, err)
		}

		a.logger.WithFields(log.Fields{
			"route_id": route.ID,
			"points":   len(route.Points),
		}).Info("Starting leg")

		// Single-point legs are parked: report once and wait a tick.
		if engine.IsFinished() {
			a.emit(engine.CurrentPosition(), 0)
			if err := sleep(ctx, a.cfg.Timing.Interval); err != nil {
				return err
			}
		}

		for !engine.IsFinished() {
			pos := engine.Tick(a.cfg.Timing.Step)
			a.emit(pos, engine.CurrentSpeedKph())
			if err := sleep(ctx, a.cfg.Timing.Interval); err != nil {
				return err
			}
		}

		if a.cfg.Oscillate {
			a.logger.Info("Reversing for return leg")
			route = route.Reversed()
		} else {
			a.logger.Info("Looping back to start")
		}

		if err := sleep(ctx, a.cfg.Timing.Settle); err != nil {
			return err
		}
	}
}

func (a *Actor) emit(pos models.Coordinate, speedKph float64) {
	tele := models.Telemetry{
		BikeID:      a.cfg.VehicleID,
		VehicleType: string(a.cfg.Type),
		Lat:         pos.Lat,
		Lng:         pos.Lng,
		SpeedKph:    speedKph,
		Timestamp:   a.cfg.Now().UTC(),
	}
	data, err := json.Marshal(tele)
	if err != nil {
		a.logger.WithError(err).Error("Failed to marshal telemetry")
		return
	}
	a.logger.WithFields(log.Fields{"lat": pos.Lat, "lng": pos.Lng, "speed_kph": speedKph}).Debug("Tick")
	a.publisher.Publish(data)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
