package database

import "fmt"

// PostgresDialect implements Dialect for PostgreSQL databases.
type PostgresDialect struct{}

// DriverName returns "postgres" for the lib/pq driver.
func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns "$N" for the given position.
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// InitStatements returns nothing; PostgreSQL needs no per-connection setup.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

func (d *PostgresDialect) TimestampType() string {
	return "TIMESTAMPTZ"
}
