package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/chriserin/reqtrace/internal/coverage"
)

const (
	coverageSheet     = "Coverage"
	requirementsSheet = "Requirements"
)

// XLSXWriter writes a workbook with a Coverage sheet, one row per part, and a
// Requirements sheet, one row per requirement.
type XLSXWriter struct{}

func (x *XLSXWriter) Write(w io.Writer, records []coverage.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", coverageSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(requirementsSheet); err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return fmt.Errorf("creating cell style: %w", err)
	}

	rows := [][]string{coverageHeader}
	for _, r := range records {
		rows = append(rows, coverageRow(r))
	}
	if err := writeSheet(f, coverageSheet, rows, header, wrap); err != nil {
		return err
	}

	rows = [][]string{requirementHeader}
	for _, rc := range coverage.Matrix(records) {
		rows = append(rows, requirementRow(rc))
	}
	if err := writeSheet(f, requirementsSheet, rows, header, wrap); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string, header, body int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	if len(rows) > 1 {
		if err := f.SetRowStyle(sheet, 2, len(rows), body); err != nil {
			return fmt.Errorf("styling %s rows: %w", sheet, err)
		}
	}
	return nil
}
