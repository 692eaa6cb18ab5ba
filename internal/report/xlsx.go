package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/koltyakov/orgimport/pkg/types"
)

const (
	summarySheet = "Summary"
	errorsSheet  = "Errors"
)

// writeXLSX writes a workbook with a summary sheet and an error sheet
func writeXLSX(path string, rep types.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	for i, pair := range summaryRows(rep) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{pair[0], pair[1]}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(errorsSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(errorColumns))
	for i, c := range errorColumns {
		header[i] = c
	}
	rows := [][]interface{}{header}
	for _, e := range rep.Errors {
		rows = append(rows, errorCells(e))
	}
	if err := writeRows(f, errorsSheet, rows); err != nil {
		return err
	}
	if err := boldHeader(f, errorsSheet, len(errorColumns)); err != nil {
		return err
	}
	if err := f.SetColWidth(errorsSheet, "C", "D", 60); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}

func boldHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}
