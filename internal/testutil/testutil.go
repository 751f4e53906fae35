//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides PostgreSQL helpers for the warehouse and run
// history integration tests.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// DefaultTestConnString is the default connection string for tests.
	// Override with TOURCAST_TEST_CONN environment variable.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// TestDBPrefix is the prefix for test databases.
	TestDBPrefix = "tourcast_test_"
)

// PostgresAvailable checks if PostgreSQL is available for testing.
// Returns the connection string if available, empty string otherwise.
func PostgresAvailable() string {
	connStr := os.Getenv("TOURCAST_TEST_CONN")
	if connStr == "" {
		connStr = DefaultTestConnString
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return ""
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return ""
	}

	return connStr
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available.
func SkipIfNoPostgres(t *testing.T) string {
	connStr := PostgresAvailable()
	if connStr == "" {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// Database is a throwaway database created for one test.
type Database struct {
	Name    string
	ConnStr string
	Pool    *pgxpool.Pool
}

// NewDatabase creates a fresh database named after label and connects to
// it. The pool is closed when the test ends; the database is dropped only
// if the test passed, so failures leave it behind for diagnosis.
func NewDatabase(t *testing.T, label string) *Database {
	t.Helper()
	baseConnStr := SkipIfNoPostgres(t)

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	name := TestDBPrefix + label + "_" + hex.EncodeToString(suffix)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	ident := pgx.Identifier{name}.Sanitize()
	_, err = admin.Exec(ctx, "CREATE DATABASE "+ident)
	admin.Close()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	connStr, err := withDatabase(baseConnStr, name)
	if err != nil {
		t.Fatalf("Failed to build test connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &Database{Name: name, ConnStr: connStr, Pool: pool}
	t.Cleanup(func() {
		pool.Close()
		if t.Failed() {
			t.Logf("Test failed - keeping database %s for diagnostics", name)
			return
		}
		dropDatabase(t, baseConnStr, name)
	})
	return db
}

// withDatabase rewrites connStr to point at another database. ConnString()
// does not reflect changes to ConnConfig.Database, so the URL is rebuilt.
func withDatabase(connStr, name string) (string, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return "", err
	}
	cc := config.ConnConfig
	if cc.Password != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cc.User, cc.Password, cc.Host, cc.Port, name), nil
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cc.User, cc.Host, cc.Port, name), nil
}

func dropDatabase(t *testing.T, baseConnStr, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	_, _ = pool.Exec(ctx, `
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = $1 AND pid <> pg_backend_pid()
    `, name)

	if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}

// TableRowCount returns the number of rows in schema.table.
func (d *Database) TableRowCount(t *testing.T, schema, table string) int64 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int64
	ident := pgx.Identifier{schema, table}.Sanitize()
	if err := d.Pool.QueryRow(ctx, "SELECT count(*) FROM "+ident).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", ident, err)
	}
	return n
}
