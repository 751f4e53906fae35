//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/logging"
)

// Step runs fn as a named pipeline stage with start and end markers. A
// failing stage is logged and its error returned wrapped with the name.
func Step(name string, fn func() error) error {
	log := logging.Component("pipeline")
	log.Info().Str("step", name).Msgf("=== %s ===", name)

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("step", name).
			Dur("elapsed", elapsed).
			Msgf("--- failed: %s (%.1fs) ---", name, elapsed.Seconds())
		return fmt.Errorf("%s: %w", name, err)
	}

	log.Info().
		Str("step", name).
		Dur("elapsed", elapsed).
		Msgf("--- done: %s (%.1fs) ---", name, elapsed.Seconds())
	return nil
}
