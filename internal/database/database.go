// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

// Package database wraps an embedded DuckDB connection used to ingest the
// upstream tabular artifacts: the property catalog table and, for the
// operator CLI, raw similarity matrices exported as CSV.
//
// The connection is in-memory and short-lived. Nothing is persisted; the
// catalog is read once per bundle load and copied into immutable Go
// structures.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/homematch/internal/logging"
)

// Config controls the embedded DuckDB instance.
type Config struct {
	// Threads caps DuckDB worker threads. Zero means runtime.NumCPU().
	Threads int

	// MaxMemory is a DuckDB memory limit string such as "512MB".
	MaxMemory string
}

// DefaultConfig returns settings suitable for catalog ingestion.
func DefaultConfig() Config {
	return Config{
		Threads:   0,
		MaxMemory: "512MB",
	}
}

// DB wraps an in-memory DuckDB connection.
type DB struct {
	conn *sql.DB
}

// Open starts an in-memory DuckDB instance.
//
// Insertion order is preserved so that rows come back in file order; the
// catalog relies on this to assign positions.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = DefaultConfig().MaxMemory
	}

	connStr := fmt.Sprintf(":memory:?threads=%d&max_memory=%s&preserve_insertion_order=true&autoinstall_known_extensions=false",
		threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	// A single connection keeps session settings consistent across queries.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close() //nolint:errcheck // already returning the ping error
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	logging.Debug().Int("threads", threads).Str("max_memory", maxMemory).Msg("duckdb opened")

	return &DB{conn: conn}, nil
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close releases the DuckDB instance.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}
