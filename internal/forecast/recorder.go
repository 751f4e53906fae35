//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// RunRecord is one trained variant in forecast_runs.
type RunRecord struct {
	RunID     string    `db:"run_id"`
	Variant   string    `db:"variant"`
	Version   string    `db:"prediction_version"`
	Split     string    `db:"split"`
	Grain     string    `db:"grain"`
	MAE       float64   `db:"mae"`
	RMSE      float64   `db:"rmse"`
	R2        float64   `db:"r2"`
	NTrain    int       `db:"n_train"`
	NTest     int       `db:"n_test"`
	Features  int       `db:"features"`
	TrainedAt time.Time `db:"trained_at"`
}

// NewRunRecord builds a record from a variant's metrics.
func NewRunRecord(variant, version string, m Metrics) RunRecord {
	return RunRecord{
		RunID:     m.RunID,
		Variant:   variant,
		Version:   version,
		Split:     m.Split,
		Grain:     m.Grain,
		MAE:       m.MAE,
		RMSE:      m.RMSE,
		R2:        m.R2,
		NTrain:    m.NTrain,
		NTest:     m.NTest,
		Features:  m.Features,
		TrainedAt: m.TrainedAt,
	}
}

// RunRecorder stores training run history.
type RunRecorder interface {
	Record(ctx context.Context, rec RunRecord) error
	Close() error
}

// NoopRecorder discards runs.
type NoopRecorder struct{}

// Record implements RunRecorder.
func (NoopRecorder) Record(context.Context, RunRecord) error { return nil }

// Close implements RunRecorder.
func (NoopRecorder) Close() error { return nil }

// PostgresRunRecorder writes runs to a forecast_runs table.
type PostgresRunRecorder struct {
	db *sqlx.DB
}

const createRunsTable = `
	CREATE TABLE IF NOT EXISTS forecast_runs (
		id                 BIGSERIAL PRIMARY KEY,
		run_id             TEXT NOT NULL,
		variant            TEXT NOT NULL,
		prediction_version TEXT NOT NULL,
		split              TEXT NOT NULL,
		grain              TEXT NOT NULL,
		mae                DOUBLE PRECISION NOT NULL,
		rmse               DOUBLE PRECISION NOT NULL,
		r2                 DOUBLE PRECISION NOT NULL,
		n_train            INTEGER NOT NULL,
		n_test             INTEGER NOT NULL,
		features           INTEGER NOT NULL,
		trained_at         TIMESTAMPTZ NOT NULL,
		recorded_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// NewPostgresRunRecorder connects to connStr and ensures forecast_runs
// exists.
func NewPostgresRunRecorder(ctx context.Context, connStr string) (*PostgresRunRecorder, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to run history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create forecast_runs: %w", err)
	}
	return &PostgresRunRecorder{db: db}, nil
}

// Record implements RunRecorder.
func (r *PostgresRunRecorder) Record(ctx context.Context, rec RunRecord) error {
	const query = `
		INSERT INTO forecast_runs (
			run_id, variant, prediction_version, split, grain,
			mae, rmse, r2, n_train, n_test, features, trained_at
		) VALUES (
			:run_id, :variant, :prediction_version, :split, :grain,
			:mae, :rmse, :r2, :n_train, :n_test, :features, :trained_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("failed to record run for %s: %w", rec.Variant, err)
	}
	return nil
}

// Recent returns the latest recorded runs, newest first.
func (r *PostgresRunRecorder) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	const query = `
		SELECT run_id, variant, prediction_version, split, grain,
		       mae, rmse, r2, n_train, n_test, features, trained_at
		FROM forecast_runs
		ORDER BY trained_at DESC, id DESC
		LIMIT $1`

	var runs []RunRecord
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query forecast_runs: %w", err)
	}
	return runs, nil
}

// Close implements RunRecorder.
func (r *PostgresRunRecorder) Close() error {
	return r.db.Close()
}
