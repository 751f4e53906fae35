//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package version provides build and version information for pgedge-tourcast.
package version

import (
	"fmt"
	"runtime"
)

// Build information set at compile time via ldflags.
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information.
func Info() string {
	return fmt.Sprintf(
		"pgedge-tourcast %s (commit: %s, built: %s, go: %s)",
		Version, Commit, BuildDate, runtime.Version(),
	)
}

// UserAgent identifies the tool on outgoing API requests.
func UserAgent() string {
	return "pgedge-tourcast/" + Version
}

// Short returns just the version string.
func Short() string {
	return Version
}
