package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"milhier/internal/config"
)

// ErrUnavailable marks connection and transaction failures so callers can
// distinguish "system down" from bad input. No automatic retry is attempted.
var ErrUnavailable = errors.New("database unavailable")

// Dialect identifies the underlying database engine
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Database wraps the SQL database connection together with its dialect.
// All queries issued through it use `?` placeholders; the adapter rewrites
// them for the active engine, so call sites never branch on backend type.
type Database struct {
	DB      *sql.DB
	dialect Dialect
}

// New opens a database connection. A configured connection URL selects
// PostgreSQL; otherwise the embedded SQLite backend is used.
func New(cfg *config.DatabaseConfig) (*Database, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	if cfg.URL != "" {
		dialect = DialectPostgres
		db, err = sql.Open("postgres", cfg.URL)
	} else {
		dialect = DialectSQLite
		dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.SQLitePath)
		db, err = sql.Open("sqlite", dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open: %v", ErrUnavailable, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping: %v", ErrUnavailable, err)
	}

	return &Database{DB: db, dialect: dialect}, nil
}

// Dialect returns the active engine dialect
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	return d.DB.Ping()
}

// HealthCheck performs a health check on the database
func (d *Database) HealthCheck() error {
	ctx, cancel := getContext(5 * time.Second)
	defer cancel()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: health check failed: %v", ErrUnavailable, err)
	}

	return nil
}

// IsUnavailable reports whether err stems from a lost or failed connection
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, sql.ErrConnDone)
}
