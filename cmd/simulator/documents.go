package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/config"
	"github.com/ukydev/fleet-simulator/internal/db"
	"github.com/ukydev/fleet-simulator/internal/models"
)

func loadFiles(s *config.Settings) (*models.Library, *models.Fleet, error) {
	lib, err := config.LoadLibrary(s.Catalog.Itineraries)
	if err != nil {
		return nil, nil, err
	}
	fleet, err := config.LoadFleet(s.Catalog.Fleet)
	if err != nil {
		return nil, nil, err
	}
	return lib, fleet, nil
}

func connectCatalog(ctx context.Context, s *config.Settings) (*db.Catalog, func(), error) {
	client, err := db.ConnectMongo(ctx, s.Mongo.URI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}
	return db.NewCatalog(client.Database(s.Mongo.Database)), closeFn, nil
}

// loadDocuments reads the catalog and fleet from the configured source.
func loadDocuments(ctx context.Context, s *config.Settings) (*models.Library, *models.Fleet, error) {
	if s.Catalog.Source != "mongo" {
		return loadFiles(s)
	}

	catalog, closeFn, err := connectCatalog(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	lib, err := catalog.LoadLibrary(ctx)
	if err != nil {
		return nil, nil, err
	}
	fleet, err := catalog.LoadFleet(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(log.Fields{
		"database": s.Mongo.Database,
		"segments": len(lib.Segments),
		"trips":    len(lib.Trips),
		"vehicles": len(fleet.Vehicles),
	}).Info("Catalog loaded from MongoDB")
	return lib, fleet, nil
}

func describe(lib *models.Library, fleet *models.Fleet) string {
	return fmt.Sprintf("%d segments, %d trips, %d vehicles", len(lib.Segments), len(lib.Trips), len(fleet.Vehicles))
}
