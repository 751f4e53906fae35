//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
)

// ProgressReporter tracks and reports generation progress over a known
// number of units (routes, weeks, trees).
type ProgressReporter struct {
	label            string
	total            int64
	current          int64
	progressInterval int64
	rows             int64
}

// NewProgressReporter creates a new progress reporter. An interval below one
// is treated as one.
func NewProgressReporter(label string, total int64, interval int64) *ProgressReporter {
	if interval < 1 {
		interval = 1
	}
	return &ProgressReporter{
		label:            label,
		total:            total,
		progressInterval: interval,
	}
}

// Update records finished units and the rows they produced, logging whenever
// a progress interval is crossed.
func (p *ProgressReporter) Update(units, rows int64) {
	old := p.current
	p.current += units
	p.rows += rows

	if p.current/p.progressInterval > old/p.progressInterval {
		pct := 0.0
		if p.total > 0 {
			pct = float64(p.current) / float64(p.total) * 100
		}
		logging.Debug().
			Str("stage", p.label).
			Int64("done", p.current).
			Int64("total", p.total).
			Int64("rows", p.rows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Rows returns the number of rows recorded so far.
func (p *ProgressReporter) Rows() int64 {
	return p.rows
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("stage", p.label).
		Int64("units", p.current).
		Int64("rows", p.rows).
		Msg("Generation complete")
}
