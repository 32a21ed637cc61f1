package db

import (
	"context"
	"fmt"

	"github.com/ukydev/fleet-simulator/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the catalog store.
const (
	SegmentsCollection = "segments"
	TripsCollection    = "trips"
	VehiclesCollection = "vehicles"
)

// Catalog reads the segment/trip catalog and the fleet document from three
// collections.
type Catalog struct {
	Segments CatalogCollection
	Trips    CatalogCollection
	Vehicles CatalogCollection
}

// NewCatalog returns a Catalog backed by the given database.
func NewCatalog(database *mongo.Database) *Catalog {
	return &Catalog{
		Segments: &MongoCollection{Collection: database.Collection(SegmentsCollection)},
		Trips:    &MongoCollection{Collection: database.Collection(TripsCollection)},
		Vehicles: &MongoCollection{Collection: database.Collection(VehiclesCollection)},
	}
}

func findAll(ctx context.Context, coll CatalogCollection, out interface{}) error {
	if coll == nil {
		return errNilCollection
	}
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// LoadLibrary reads every segment and trip.
func (c *Catalog) LoadLibrary(ctx context.Context) (*models.Library, error) {
	lib := &models.Library{}
	if err := findAll(ctx, c.Segments, &lib.Segments); err != nil {
		return nil, fmt.Errorf("error loading segments: %w", err)
	}
	if err := findAll(ctx, c.Trips, &lib.Trips); err != nil {
		return nil, fmt.Errorf("error loading trips: %w", err)
	}
	return lib, nil
}

// LoadFleet reads every vehicle assignment.
func (c *Catalog) LoadFleet(ctx context.Context) (*models.Fleet, error) {
	fleet := &models.Fleet{}
	if err := findAll(ctx, c.Vehicles, &fleet.Vehicles); err != nil {
		return nil, fmt.Errorf("error loading vehicles: %w", err)
	}
	return fleet, nil
}

func replaceAll(ctx context.Context, coll CatalogCollection, docs []interface{}) error {
	if coll == nil {
		return errNilCollection
	}
	if err := coll.DeleteAll(ctx); err != nil {
		return err
	}
	return coll.InsertMany(ctx, docs)
}

// Import replaces the stored catalog and fleet with the given documents.
func (c *Catalog) Import(ctx context.Context, lib *models.Library, fleet *models.Fleet) error {
	segments := make([]interface{}, 0, len(lib.Segments))
	for _, s := range lib.Segments {
		segments = append(segments, s)
	}
	trips := make([]interface{}, 0, len(lib.Trips))
	for _, t := range lib.Trips {
		trips = append(trips, t)
	}
	vehicles := make([]interface{}, 0, len(fleet.Vehicles))
	for _, v := range fleet.Vehicles {
		vehicles = append(vehicles, v)
	}

	if err := replaceAll(ctx, c.Segments, segments); err != nil {
		return fmt.Errorf("error importing segments: %w", err)
	}
	if err := replaceAll(ctx, c.Trips, trips); err != nil {
		return fmt.Errorf("error importing trips: %w", err)
	}
	if err := replaceAll(ctx, c.Vehicles, vehicles); err != nil {
		return fmt.Errorf("error importing vehicles: %w", err)
	}
	return nil
}
