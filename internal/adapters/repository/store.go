// Package repository caches raw PokeAPI documents between runs.
package repository

import (
	"context"
	"time"
)

// Document is one cached upstream document.
type Document struct {
	ID        int
	Name      string
	Body      []byte
	FetchedAt time.Time
}

// Store provides read/write access to the document cache.
type Store interface {
	// Put inserts or replaces the document for id.
	Put(ctx context.Context, id int, doc []byte) error

	// Get returns the document body for id.
	// Returns ErrNotFound if id is not cached.
	Get(ctx context.Context, id int) ([]byte, error)

	// All returns every cached document ordered by id.
	All(ctx context.Context) ([]Document, error)

	// Count returns the number of cached documents.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying resources.
	Close() error
}
