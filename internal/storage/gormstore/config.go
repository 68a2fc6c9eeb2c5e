package gormstore

import "time"

// Supported relational drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds relational database settings
type Config struct {
	// Driver selects the database engine ("sqlite" or "postgres")
	Driver string

	// DSN is a file path for sqlite or a connection string for postgres
	DSN string

	// BusyTimeout bounds how long sqlite waits on a locked database
	BusyTimeout time.Duration

	// Debug logs every SQL statement
	Debug bool
}

// DefaultConfig returns sensible defaults for the database configuration
func DefaultConfig() Config {
	return Config{
		Driver:      DriverSQLite,
		DSN:         "database/usuarios.db",
		BusyTimeout: 5 * time.Second,
	}
}
