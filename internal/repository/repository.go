// Package repository is the PostgreSQL metadata store. Plain SQL through
// pgx, one record per statement, no cross-table transactions.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by single-record lookups and updates that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrStoreUnavailable is returned by every call on a Disabled store.
	ErrStoreUnavailable = errors.New("metadata store not configured")
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements the metadata store on top of DBTX.
type Postgres struct {
	db DBTX
}

func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// IsConfigured reports whether a connection is attached.
func (p *Postgres) IsConfigured() bool {
	return p != nil && p.db != nil
}

// validID reports whether id can address a row. Ids are UUIDs; anything
// else can never match and is treated as absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
