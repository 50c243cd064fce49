// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// readXLSX reads the first worksheet; row 1 is the header.
func readXLSX(path string) (*Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return New(), nil
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return fromGrid(rows), nil
}

func writeXLSX(path string, f *Frame) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := writeSheetRow(wb, 1, f.Columns); err != nil {
		return err
	}
	for r, row := range f.Rows {
		if err := writeSheetRow(wb, r+2, row); err != nil {
			return err
		}
	}
	return wb.SaveAs(path)
}

func writeSheetRow(wb *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := wb.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	return nil
}
