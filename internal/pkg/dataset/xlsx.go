package dataset

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ReadXLSX reads every sheet of a workbook; the first row of a sheet is its header.
// Cells are read unformatted so numbers keep their stored precision.
func ReadXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	wb := &Workbook{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("GetRows, sheet-%s: %w", sheet, err)
		}

		t := RawTable{Name: sheet}
		if len(rows) > 0 {
			t.Header = rows[0]
			t.Rows = rows[1:]
		}
		wb.Tables = append(wb.Tables, t)
	}

	return wb, nil
}

// WriteXLSX renders the workbook as a new xlsx file, one sheet per table in order.
func WriteXLSX(wb *Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	keepDefault := false
	for _, t := range wb.Tables {
		if t.Name == defaultSheet {
			keepDefault = true
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return nil, fmt.Errorf("NewSheet, sheet-%s: %w", t.Name, err)
		}

		if err := writeRow(f, t.Name, 1, t.Header); err != nil {
			return nil, err
		}
		for i, row := range t.Rows {
			if err := writeRow(f, t.Name, i+2, row); err != nil {
				return nil, err
			}
		}
	}

	if !keepDefault && len(wb.Tables) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("DeleteSheet: %w", err)
		}
		f.SetActiveSheet(0)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("WriteToBuffer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = cellValue(v)
	}

	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
		return fmt.Errorf("SetSheetRow, sheet-%s, row-%d: %w", sheet, rowNum, err)
	}
	return nil
}

// cellValue stores numbers as numeric cells when the float reads back as the same text.
// Anything else, long codes included, stays a text cell.
func cellValue(v string) interface{} {
	d, err := decimal.NewFromString(v)
	if err != nil || d.String() != v {
		return v
	}
	f := d.InexactFloat64()
	if strconv.FormatFloat(f, 'f', -1, 64) != v {
		return v
	}
	return f
}

// ReplaceTableXLSX rewrites one sheet of an xlsx file in place. The sheet is matched by
// name regardless of case and keeps its name and position; an unknown name is appended
// as a new sheet. Every other sheet is left untouched, formulas and styles included.
func ReplaceTableXLSX(content []byte, t RawTable) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := ""
	for _, name := range f.GetSheetList() {
		if headerKey(name) == headerKey(t.Name) {
			sheet = name
			break
		}
	}

	if sheet == "" {
		sheet = t.Name
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("NewSheet, sheet-%s: %w", sheet, err)
		}
	} else if err := clearSheet(f, sheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, sheet, 1, t.Header); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("WriteToBuffer: %w", err)
	}
	return buf.Bytes(), nil
}

// clearSheet removes every row of the sheet, bottom up.
func clearSheet(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("GetRows, sheet-%s: %w", sheet, err)
	}
	for n := len(rows); n >= 1; n-- {
		if err := f.RemoveRow(sheet, n); err != nil {
			return fmt.Errorf("RemoveRow, sheet-%s, row-%d: %w", sheet, n, err)
		}
	}
	return nil
}
