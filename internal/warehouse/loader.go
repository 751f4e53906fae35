//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse loads the processed files into PostgreSQL, one table
// per file, and adds indexes and reporting views.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/db"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Loader replaces warehouse tables from processed files.
type Loader struct {
	pool   *pgxpool.Pool
	schema string
	log    zerolog.Logger
}

// NewLoader creates a loader writing into schema.
func NewLoader(pool *pgxpool.Pool, schema string) *Loader {
	return &Loader{
		pool:   pool,
		schema: schema,
		log:    logging.Component("warehouse"),
	}
}

// Summary reports what a load did.
type Summary struct {
	Loaded  map[string]int64
	Skipped []string
	Views   []string
}

func (l *Loader) ident(name string) string {
	return pgx.Identifier{l.schema, name}.Sanitize()
}

// Load reads every listed file from dir and replaces its table. Missing
// optional files are skipped; any other missing file fails the load
// before anything is written.
func (l *Loader) Load(ctx context.Context, dir string, loads []catalog.Load, runID string) (*Summary, error) {
	sum := &Summary{Loaded: make(map[string]int64)}

	var present []catalog.Load
	for _, ld := range loads {
		path := table.Path(dir, ld.Stem)
		if table.Exists(path) {
			present = append(present, ld)
			continue
		}
		if !ld.Optional {
			return nil, fmt.Errorf("missing processed table: %s", path)
		}
		l.log.Warn().Str("table", ld.Table).Str("path", path).Msg("Skipping missing table")
		sum.Skipped = append(sum.Skipped, ld.Table)
	}

	if _, err := l.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{l.schema}.Sanitize()); err != nil {
		return nil, fmt.Errorf("failed to create schema %s: %w", l.schema, err)
	}

	for _, ld := range present {
		t, err := table.Read(table.Path(dir, ld.Stem))
		if err != nil {
			return nil, err
		}
		n, err := l.replace(ctx, ld, t)
		if err != nil {
			return nil, err
		}
		sum.Loaded[ld.Table] = n
	}

	views, err := l.createViews(ctx, sum.Loaded)
	if err != nil {
		return nil, err
	}
	sum.Views = views

	if err := db.SaveMetadata(ctx, l.pool, l.schema, runID); err != nil {
		return nil, err
	}
	return sum, nil
}

// CreateTableSQL returns the DDL for t.
func CreateTableSQL(ident string, columns, types []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " " + types[i]
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", ident, strings.Join(defs, ",\n    "))
}

// replace drops, recreates, copies and indexes one table in a single
// transaction.
func (l *Loader) replace(ctx context.Context, ld catalog.Load, t *table.Table) (int64, error) {
	types := InferTypes(t)
	rows, err := Rows(t, types)
	if err != nil {
		return 0, fmt.Errorf("failed to convert %s: %w", ld.Stem, err)
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ident := l.ident(ld.Table)
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident+" CASCADE"); err != nil {
		return 0, fmt.Errorf("failed to drop %s: %w", ld.Table, err)
	}
	if _, err := tx.Exec(ctx, CreateTableSQL(ident, t.Columns, types)); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", ld.Table, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{l.schema, ld.Table}, t.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy into %s: %w", ld.Table, err)
	}

	for _, ix := range ld.Indexes {
		if missing := t.Missing(ix.Columns...); len(missing) > 0 {
			l.log.Warn().Str("index", ix.Name).Strs("missing", missing).Msg("Skipping index")
			continue
		}
		if _, err := tx.Exec(ctx, CreateIndexSQL(ix, ident)); err != nil {
			return 0, fmt.Errorf("failed to create index %s: %w", ix.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", ld.Table, err)
	}

	l.log.Info().
		Str("table", ld.Table).
		Int64("rows", n).
		Int("indexes", len(ld.Indexes)).
		Msg("Loaded table")
	return n, nil
}

// CreateIndexSQL returns the DDL for an index on ident.
func CreateIndexSQL(ix catalog.Index, ident string) string {
	cols := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		pgx.Identifier{ix.Name}.Sanitize(), ident, strings.Join(cols, ", "))
}
