//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package export writes processed tables to spreadsheet workbooks for the
// reporting tool, one workbook per table.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// maxSheetName is the sheet name limit imposed by the workbook format.
const maxSheetName = 31

// Summary reports what an export wrote.
type Summary struct {
	Written []string
	Skipped []string
}

// WorkbookPath returns the workbook location for a table.
func WorkbookPath(dir, name string) string {
	return filepath.Join(dir, name+".xlsx")
}

// Tables exports each named table from srcDir into dstDir. Tables without a
// file are skipped with a notice.
func Tables(srcDir, dstDir string, names []string) (*Summary, error) {
	log := logging.Component("export")

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", dstDir, err)
	}

	sum := &Summary{}
	for _, name := range names {
		src := table.Path(srcDir, name)
		if !table.Exists(src) {
			log.Warn().Str("table", name).Msg("Skipping table (not found)")
			sum.Skipped = append(sum.Skipped, name)
			continue
		}

		t, err := table.Read(src)
		if err != nil {
			return nil, err
		}
		out := WorkbookPath(dstDir, name)
		if err := Workbook(out, t); err != nil {
			return nil, err
		}
		log.Info().Str("path", out).Int("rows", t.Len()).Msg("Exported")
		sum.Written = append(sum.Written, out)
	}
	return sum, nil
}

// Workbook writes t as a single-sheet workbook with a bold header row.
func Workbook(path string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", sheet, err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = excelize.Cell{StyleID: bold, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = CellValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+1, t.Name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", t.Name, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// CellValue types a stored field for the sheet: integers and decimals
// become numbers, empty fields stay blank and everything else is text.
func CellValue(v string) any {
	if v == "" {
		return nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(v, 64); err == nil {
		return x
	}
	return v
}
