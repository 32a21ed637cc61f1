package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogCollection defines the collection operations the catalog store needs.
type CatalogCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	InsertMany(ctx context.Context, docs []interface{}) error
	DeleteAll(ctx context.Context) error
}

// Cursor defines the interface for cursor operations.
type Cursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
