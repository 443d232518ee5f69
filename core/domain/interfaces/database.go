package interfaces

import (
	"context"
	"database/sql"
)

// ConnProvider hands out scoped connections from a pool. *sql.DB satisfies it.
type ConnProvider interface {
	// Conn borrows a single connection; the caller must Close it to return it
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Database is the pool owned by the process
type Database interface {
	ConnProvider

	// PingContext verifies the database is reachable
	PingContext(ctx context.Context) error

	// Stats reports pool usage
	Stats() sql.DBStats

	// Close closes the pool and releases resources
	Close() error
}
