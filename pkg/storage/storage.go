// Package storage opens bun databases for the engine's collections.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

var ErrDialectUnknown = errors.New("storage: unknown dialect")

// Dialect returns the bun dialect registered under name. An empty name
// selects sqlite.
func Dialect(name string) (schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DialectSQLite, "sqlite3":
		return sqlitedialect.New(), nil
	case DialectPostgres, "pg", "postgresql":
		return pgdialect.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDialectUnknown, name)
	}
}

// NewBunDB wraps sqlDB with the named dialect. SQLite databases are limited
// to a single open connection.
func NewBunDB(sqlDB *sql.DB, dialect string) (*bun.DB, error) {
	if sqlDB == nil {
		return nil, errors.New("storage: sql db is required")
	}
	d, err := Dialect(dialect)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, d)
	if _, ok := d.(*sqlitedialect.Dialect); ok {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
