// Package kv provides the key/value byte stores that back history and settings.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Errors returned by the stores.
var (
	ErrNotFound      = errors.New("key not found")
	ErrClosed        = errors.New("store closed")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a byte store addressed by string keys.
type Store interface {
	// Get returns the value of key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value of key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the store.
	Close() error
}

// Open creates the store selected by driver. dsn is a directory for the
// file driver and a data source name for the SQL drivers.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile:
		return NewFileStore(dsn)
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, driver, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
