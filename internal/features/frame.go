//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package features builds numeric model frames from the route-day and
// route-week facts and from future calendar scaffolds.
//
// Daily and weekly frames keep distinct feature sets: daily frames one-hot
// encode region, difficulty, season and day name, weekly frames only
// region and difficulty.
package features

import (
	"sort"
	"time"
)

// Target is the column every frame predicts.
const Target = "bookings_count"

// Frame is a dense numeric feature matrix. Target is nil for scoring
// frames.
type Frame struct {
	Columns []string
	Rows    [][]float64
	Target  []float64
	Meta    []RowMeta

	index map[string]int
}

// RowMeta carries the identifying attributes of a frame row that are not
// features themselves.
type RowMeta struct {
	RouteID       int
	Region        string
	Difficulty    string
	DistanceKM    float64
	DurationHours float64

	// Daily grain.
	Date                time.Time
	DateKey             int
	Season              string
	DayName             string
	BankHolidayDivision bool
	Closed              bool
	WeatherSynthesized  bool

	// Weekly grain.
	ISOYear            int
	ISOWeek            int
	WeekStart          time.Time
	WeekendDays        int
	BankHolidayDaysAny int
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// ColumnIndex returns the position of a feature column.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	if f.index == nil {
		f.index = make(map[string]int, len(f.Columns))
		for i, c := range f.Columns {
			f.index[c] = i
		}
	}
	i, ok := f.index[name]
	return i, ok
}

// Column returns a copy of one feature column.
func (f *Frame) Column(name string) ([]float64, bool) {
	i, ok := f.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(f.Rows))
	for r, row := range f.Rows {
		out[r] = row[i]
	}
	return out, true
}

// record is a row before categorical encoding.
type record struct {
	numeric []float64
	cats    []string
	target  float64
	meta    RowMeta
}

// encode one-hot expands the categorical columns. Dummy columns are named
// <column>_<value> and ordered by column then sorted value. Empty values
// get no dummy.
func encode(numericCols, catCols []string, recs []record, withTarget bool) *Frame {
	values := make([][]string, len(catCols))
	for c := range catCols {
		seen := map[string]bool{}
		for _, r := range recs {
			v := r.cats[c]
			if v != "" && !seen[v] {
				seen[v] = true
				values[c] = append(values[c], v)
			}
		}
		sort.Strings(values[c])
	}

	columns := append([]string(nil), numericCols...)
	dummy := make([]map[string]int, len(catCols))
	for c, col := range catCols {
		dummy[c] = make(map[string]int, len(values[c]))
		for _, v := range values[c] {
			dummy[c][v] = len(columns)
			columns = append(columns, col+"_"+v)
		}
	}

	f := &Frame{
		Columns: columns,
		Rows:    make([][]float64, len(recs)),
		Meta:    make([]RowMeta, len(recs)),
	}
	if withTarget {
		f.Target = make([]float64, len(recs))
	}

	for i, r := range recs {
		row := make([]float64, len(columns))
		copy(row, r.numeric)
		for c, v := range r.cats {
			if pos, ok := dummy[c][v]; ok {
				row[pos] = 1
			}
		}
		f.Rows[i] = row
		f.Meta[i] = r.meta
		if withTarget {
			f.Target[i] = r.target
		}
	}
	return f
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
