package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/config"
	"github.com/ukydev/fleet-simulator/internal/handlers"
	"github.com/ukydev/fleet-simulator/internal/hub"
	"github.com/ukydev/fleet-simulator/internal/itinerary"
	"github.com/ukydev/fleet-simulator/internal/middleware"
	"github.com/ukydev/fleet-simulator/internal/mqtt"
	"github.com/ukydev/fleet-simulator/internal/simulator"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the simulation and serve subscribers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address, overrides server.addr",
			},
		},
		Action: func(c *cli.Context) error {
			s := settingsFrom(c)
			if addr := c.String("listen"); addr != "" {
				s.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, s)
		},
	}
}

func timingFrom(s config.SimulationConfig) simulator.Timing {
	return simulator.Timing{
		Step:     s.TickSeconds,
		Interval: s.TickInterval,
		Settle:   s.SettleDelay,
	}
}

// run serves until ctx is cancelled, then shuts everything down in order:
// HTTP server, actors, in-flight deliveries.
func run(ctx context.Context, s *config.Settings) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lib, fleet, err := loadDocuments(ctx, s)
	if err != nil {
		return err
	}

	if err := itinerary.Validate(lib, fleet); err != nil {
		if s.Simulation.Strict {
			return err
		}
		log.WithError(err).Warn("Catalog has integrity problems, affected vehicles will be skipped")
	}

	h := hub.New()

	if s.MQTT.Broker != "" {
		bridge, err := mqtt.Dial(s.MQTT.Broker, s.MQTT.ClientID, s.MQTT.Topic)
		if err != nil {
			return err
		}
		defer bridge.Close()
		h.Subscribe(bridge)
	}

	supervisor := simulator.NewSupervisor(h, timingFrom(s.Simulation))
	if n := supervisor.Start(ctx, lib, fleet); n == 0 {
		log.Warn("No vehicles are running")
	}

	limiter := middleware.NewRateLimiter(s.RateLimit.MaxConnects, s.RateLimit.Window, s.RateLimit.TrustProxy)
	server := &http.Server{
		Addr:              s.Server.Addr,
		Handler:           handlers.NewRouter(h, supervisor, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", s.Server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err = <-serverErr:
		log.WithError(err).Error("Server failed")
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Warn("Server shutdown incomplete")
	}

	if waitErr := supervisor.Wait(); waitErr != nil {
		log.WithError(waitErr).Warn("Some vehicles stopped with errors")
	}
	h.Close()
	log.Info("Shutdown complete")
	return err
}
