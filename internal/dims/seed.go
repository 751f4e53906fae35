//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dims builds the route and guide dimensions from seed JSON.
package dims

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrEmptySeed is returned when a seed file has no content.
	ErrEmptySeed = errors.New("seed file is empty")

	// ErrInvalidSeed is returned when a seed file is not a JSON array of
	// objects or lacks a required field.
	ErrInvalidSeed = errors.New("invalid seed file")

	// ErrUnknownRegion is returned for a route region with no bounding box.
	ErrUnknownRegion = errors.New("unknown region")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readSeed reads a seed file, tolerating a UTF-8 BOM and surrounding
// whitespace.
func readSeed(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("seed file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return data, nil
}

// decodeSeed unmarshals a JSON array seed into out.
func decodeSeed(data []byte, source string, out any) error {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return fmt.Errorf("%s: %w; expected a JSON list", source, ErrEmptySeed)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", source, ErrInvalidSeed, err)
	}
	return nil
}

// seedNumber accepts a JSON number or a numeric string and remembers whether
// the field was present.
type seedNumber struct {
	value float64
	set   bool
}

func (n *seedNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", string(b))
	}
	n.value = v
	n.set = true
	return nil
}

func (n seedNumber) int() int {
	return int(n.value)
}

// seedString accepts any JSON scalar and renders it as text.
type seedString struct {
	value string
	set   bool
}

func (s *seedString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		s.value = str
	} else {
		s.value = raw
	}
	s.set = true
	return nil
}

func missingField(source string, index int, field string) error {
	return fmt.Errorf("%s: %w: record %d is missing %q", source, ErrInvalidSeed, index, field)
}
