//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"strconv"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Column types inferred from file contents.
const (
	TypeBigint = "BIGINT"
	TypeDouble = "DOUBLE PRECISION"
	TypeDate   = "DATE"
	TypeText   = "TEXT"
)

// InferType picks the narrowest type that parses every non-empty value.
// A column with no values is TEXT.
func InferType(values []string) string {
	isInt, isFloat, isDate := true, true, true
	seen := false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if isDate {
			if _, err := time.Parse(table.DateLayout, v); err != nil {
				isDate = false
			}
		}
		if !isInt && !isFloat && !isDate {
			break
		}
	}
	switch {
	case !seen:
		return TypeText
	case isInt:
		return TypeBigint
	case isFloat:
		return TypeDouble
	case isDate:
		return TypeDate
	default:
		return TypeText
	}
}

// InferTypes returns one type per column of t.
func InferTypes(t *table.Table) []string {
	types := make([]string, len(t.Columns))
	col := make([]string, t.Len())
	for c := range t.Columns {
		for r, row := range t.Rows {
			col[r] = row[c]
		}
		types[c] = InferType(col)
	}
	return types
}

// convert turns a cell into a value for COPY. Empty cells are NULL.
func convert(v, typ string) (any, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	switch typ {
	case TypeBigint:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case TypeDouble:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case TypeDate:
		d, err := time.Parse(table.DateLayout, v)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return v, nil
	}
}

// Rows converts t into typed COPY rows.
func Rows(t *table.Table, types []string) ([][]any, error) {
	out := make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		vals := make([]any, len(row))
		for c, cell := range row {
			v, err := convert(cell, types[c])
			if err != nil {
				return nil, err
			}
			vals[c] = v
		}
		out[r] = vals
	}
	return out, nil
}
