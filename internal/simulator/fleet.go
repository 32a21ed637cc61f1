package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/ukydev/fleet-simulator/internal/itinerary"
	"github.com/ukydev/fleet-simulator/internal/models"
)

var seedCounter atomic.Int64

func defaultRand() RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano() + seedCounter.Add(1)))
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithRandFactory sets the random source factory. It is called once per actor.
func WithRandFactory(f func() RandomSource) Option {
	return func(s *Supervisor) { s.newRand = f }
}

// WithClock sets the clock used for telemetry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) { s.now = now }
}

// Supervisor runs one actor per configured vehicle.
type Supervisor struct {
	publisher Publisher
	timing    Timing
	newRand   func() RandomSource
	now       func() time.Time

	mu     sync.Mutex
	routes []models.Route
	pool   *pool.ContextPool
}

func NewSupervisor(publisher Publisher, timing Timing, opts ...Option) *Supervisor {
	s := &Supervisor{
		publisher: publisher,
		timing:    timing,
		newRand:   defaultRand,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan builds the actors for fleet. Vehicles with an unknown trip, an unknown
// type or a route that resolves to no points are logged and skipped.
func (s *Supervisor) Plan(lib *models.Library, fleet *models.Fleet) []*Actor {
	catalog := itinerary.NewCatalog(lib.Segments)
	actors := make([]*Actor, 0, len(fleet.Vehicles))
	routes := make([]models.Route, 0, len(fleet.Vehicles))

	for _, v := range fleet.Vehicles {
		fields := log.Fields{"vehicle_id": v.VehicleID(), "trip_id": v.TripID}

		trip, ok := lib.FindTrip(v.TripID)
		if !ok {
			log.WithFields(fields).Warn("Trip not found, skipping vehicle")
			continue
		}

		vtype, err := models.ParseVehicleType(v.Type)
		if err != nil {
			log.WithFields(fields).WithError(err).Warn("Skipping vehicle")
			continue
		}

		route := itinerary.Assemble(trip, catalog, v.Reverse)
		if len(route.Points) == 0 {
			log.WithFields(fields).Warn("Route resolved to no points, skipping vehicle")
			continue
		}

		routes = append(routes, route)
		actors = append(actors, NewActor(ActorConfig{
			VehicleID: v.VehicleID(),
			Type:      vtype,
			Route:     route,
			Oscillate: v.Oscillate,
			Timing:    s.timing,
			Rand:      s.newRand(),
			Now:       s.now,
		}, s.publisher))
	}

	s.mu.Lock()
	s.routes = routes
	s.mu.Unlock()

	return actors
}

// Start plans the fleet and runs every actor concurrently until ctx is
// cancelled. It returns the number of actors started.
func (s *Supervisor) Start(ctx context.Context, lib *models.Library, fleet *models.Fleet) int {
	actors := s.Plan(lib, fleet)

	p := pool.New().WithContext(ctx)
	for _, a := range actors {
		a := a
		p.Go(func(ctx context.Context) error {
			err := a.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				a.logger.WithError(err).Error("Vehicle stopped")
				return err
			}
			return nil
		})
	}

	s.mu.Lock()
	s.pool = p
	s.mu.Unlock()

	log.WithFields(log.Fields{"vehicles": len(actors), "configured": len(fleet.Vehicles)}).Info("Fleet simulation started")
	return len(actors)
}

// Wait blocks until every actor has stopped and returns the errors of actors
// that stopped for a reason other than cancellation.
func (s *Supervisor) Wait() error {
	s.mu.Lock()
	p := s.pool
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Wait()
}

// Routes returns the initial route of every planned vehicle.
func (s *Supervisor) Routes() []models.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Route, len(s.routes))
	copy(out, s.routes)
	return out
}
