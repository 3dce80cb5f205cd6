// Package database provides SQLite connection management for Foundline Core.
//
// It wraps database/sql with WAL-mode pragmas, busy-timeout handling,
// health checks, and an embedded-filesystem migration runner.
//
// The connection pool is limited to a single open connection: SQLite only
// supports one writer, and serializing writes through one connection also
// gives the report ledger its non-decreasing timestamp ordering without any
// application-level locking.
package database
