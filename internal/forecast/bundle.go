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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Bundle is a persisted model with the columns it was trained on.
type Bundle struct {
	Variant        string   `json:"variant"`
	Version        string   `json:"prediction_version"`
	RunID          string   `json:"run_id"`
	FeatureColumns []string `json:"feature_columns"`
	Params         Params   `json:"params"`
	Model          *Model   `json:"model"`
}

// BundlePath returns the model bundle location for a variant.
func BundlePath(modelsDir, variant string) string {
	return filepath.Join(modelsDir, fmt.Sprintf("booking_forecast_%s.json", variant))
}

// MetricsPath returns the metrics file location for a variant.
func MetricsPath(modelsDir, variant string) string {
	return filepath.Join(modelsDir, fmt.Sprintf("ml_metrics_%s.json", variant))
}

// SaveBundle writes b to path.
func SaveBundle(path string, b *Bundle) error {
	return writeJSON(path, b)
}

// LoadBundle reads a bundle written by SaveBundle.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse model bundle %s: %w", path, err)
	}
	if b.Model == nil {
		return nil, fmt.Errorf("model bundle %s has no model", path)
	}
	return &b, nil
}

// SaveMetrics writes m to path.
func SaveMetrics(path string, m Metrics) error {
	return writeJSON(path, m)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
