//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table holds the flat tabular format every stage persists: a named
// header plus string cells, written as CSV. Typed records convert to and from
// a Table at the edges of each stage.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the on-disk date format.
const DateLayout = "2006-01-02"

// Table is an in-memory flat table.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	t := &Table{Name: name, Columns: columns}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Append adds a row. The number of values must match the columns.
func (t *Table) Append(values ...string) {
	if len(values) != len(t.Columns) {
		panic(fmt.Sprintf("table %s: row has %d values, want %d",
			t.Name, len(values), len(t.Columns)))
	}
	t.Rows = append(t.Rows, values)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Missing returns the required columns absent from the table, in order.
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Value returns the cell at row for the named column, or "" when the column
// does not exist.
func (t *Table) Value(row int, column string) string {
	i, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.Rows[row][i]
}

// Column returns every value of the named column.
func (t *Table) Column(column string) ([]string, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("table %s has no column %q", t.Name, column)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Path returns the CSV path for a table stem inside dir.
func Path(dir, stem string) string {
	return filepath.Join(dir, stem+".csv")
}

// Exists reports whether a regular file exists at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Write writes t to path as CSV, creating parent directories.
func Write(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes t as CSV to w.
func Encode(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Read loads a CSV file. The table is named after the file stem.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := Decode(name, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Decode parses CSV from r into a table named name.
func Decode(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return New(name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	t := New(name, header...)
	t.Rows = rows
	return t, nil
}

// Int formats an integer cell.
func Int(v int) string {
	return strconv.Itoa(v)
}

// Int64 formats an int64 cell.
func Int64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Float formats a float cell with the shortest exact representation.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NullFloat formats an optional float; nil becomes an empty cell.
func NullFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return Float(*v)
}

// Bool formats a boolean as 1 or 0.
func Bool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Date formats a date cell.
func Date(v time.Time) string {
	return v.Format(DateLayout)
}

// ParseInt parses an integer cell. Whole-number floats such as "12.0" are
// accepted.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}

// ParseFloat parses a float cell.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// ParseBool parses 1/0 and true/false cells.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// ParseDate parses a date cell.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}
