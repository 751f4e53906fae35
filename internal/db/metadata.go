//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/pkg/version"
)

// MetadataTable holds key/value facts about the last warehouse load.
const MetadataTable = "tourcast_metadata"

func metadataIdent(schema string) string {
	return pgx.Identifier{schema, MetadataTable}.Sanitize()
}

// SaveMetadata records the run id, tool version and load time.
func SaveMetadata(ctx context.Context, pool *pgxpool.Pool, schema, runID string) error {
	ident := metadataIdent(schema)

	_, err := pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            key   TEXT PRIMARY KEY,
            value TEXT NOT NULL
        )`, ident))
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"run_id":    runID,
		"version":   version.Short(),
		"loaded_at": time.Now().UTC().Format(time.RFC3339),
	}

	for key, value := range metadata {
		_, err := pool.Exec(ctx, fmt.Sprintf(`
            INSERT INTO %s (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, ident), key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("run_id", runID).
		Str("schema", schema).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, schema, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT value FROM %s WHERE key = $1
    `, metadataIdent(schema)), key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool, schema string) (map[string]string, error) {
	rows, err := pool.Query(ctx, fmt.Sprintf(`SELECT key, value FROM %s`, metadataIdent(schema)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// MetadataExists checks if the metadata table exists in schema.
func MetadataExists(ctx context.Context, pool *pgxpool.Pool, schema string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = $1 AND table_name = $2
        )
    `, schema, MetadataTable).Scan(&exists)
	return exists, err
}
