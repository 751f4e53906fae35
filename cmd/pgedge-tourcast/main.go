// Package main is the entry point for pgedge-tourcast.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-tourcast/internal/cli"

	// Register forecast variants
	_ "github.com/pgEdge/pgedge-tourcast/internal/variants/baseline"
	_ "github.com/pgEdge/pgedge-tourcast/internal/variants/timesplit"
	_ "github.com/pgEdge/pgedge-tourcast/internal/variants/weekly"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
