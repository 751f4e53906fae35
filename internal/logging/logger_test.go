package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", "debug", true, true},
		{"info", "info", false, true},
		{"warn", "warn", false, false},
		{"invalid falls back to info", "chatty", false, true},
		{"empty falls back to info", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Init(Config{Level: tt.level, Output: &buf})
			defer Init(DefaultConfig())

			Debug().Msg("debug-line")
			Info().Msg("info-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.wantDebug {
				t.Errorf("debug output present = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info-line"); got != tt.wantInfo {
				t.Errorf("info output present = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	log := Component("warehouse")
	log.Info().Msg("loaded")

	if !strings.Contains(buf.String(), `"component":"warehouse"`) {
		t.Errorf("Expected component field in output, got %s", buf.String())
	}
}

func TestFileReceivesJSON(t *testing.T) {
	var console, file bytes.Buffer
	Init(Config{Level: "info", Pretty: true, NoColor: true, Output: &console, File: &file})
	defer Init(DefaultConfig())

	log := Component("pipeline")
	log.Info().Str("step", "SYNTH: bookings").Msg("=== SYNTH: bookings ===")

	if !strings.Contains(console.String(), "=== SYNTH: bookings ===") {
		t.Errorf("Expected console output, got %s", console.String())
	}
	if !strings.Contains(file.String(), `"step":"SYNTH: bookings"`) {
		t.Errorf("Expected JSON line in file output, got %s", file.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tourcast.log")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, err := f.WriteString("first\n"); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
	f.Close()

	f, err = OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed on reopen: %v", err)
	}
	f.WriteString("second\n")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("Expected appended lines, got %q", string(data))
	}
}
