// Package database persists each save owner's quest mod data in SQLite or
// PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database selected by config.Driver and runs
// migrations.
func OpenWithConfig(config Config) (*Database, error) {
	var (
		dialect Dialect
		dsn     string
	)

	switch config.Driver {
	case "", string(DialectSQLite):
		dialect = NewDialect(DialectSQLite)
		dsn = config.SQLitePath
		if dsn == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case string(DialectPostgres):
		dialect = NewDialect(DialectPostgres)
		dsn = config.Postgres.DSN()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*PostgresDialect); ok {
		if config.Postgres.MaxOpenConns > 0 {
			db.SetMaxOpenConns(config.Postgres.MaxOpenConns)
		}
		if config.Postgres.MaxIdleConns > 0 {
			db.SetMaxIdleConns(config.Postgres.MaxIdleConns)
		}
		if config.Postgres.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(config.Postgres.ConnMaxLifetime)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	} else {
		// PRAGMAs are per connection.
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	ts := d.dialect.TimestampType()
	migrations := []string{
		// One row per save owner
		`CREATE TABLE IF NOT EXISTS players (
			player_id TEXT PRIMARY KEY,
			total_days INTEGER NOT NULL DEFAULT 0,
			last_saved ` + ts + `
		)`,

		// Owner key/value quest state
		`CREATE TABLE IF NOT EXISTS mod_data (
			player_id TEXT NOT NULL REFERENCES players(player_id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (player_id, key)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_mod_data_player_id ON mod_data(player_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
