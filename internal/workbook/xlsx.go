package workbook

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

type xlsxDecoder struct{}

func (xlsxDecoder) CanDecode(filename string) bool {
	return hasExt(filename, ".xlsx", ".xlsm", ".xltx", ".xltm")
}

func (xlsxDecoder) Decode(_ string, data []byte) ([]*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	r := &sheetReader{f: f, dateStyles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	var tables []*Table
	for _, sheet := range f.GetSheetList() {
		t, err := r.read(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

type sheetReader struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

// read converts one sheet; the first row is the header. Fully blank data rows
// are skipped.
func (r *sheetReader) read(sheet string) (*Table, error) {
	rows, err := r.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return &Table{Name: sheet}, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = headerName(h, i)
	}
	// data rows may be wider than the header
	for _, row := range rows[1:] {
		for len(header) < len(row) {
			header = append(header, headerName("", len(header)))
		}
	}
	var out [][]Value
	for ri, row := range rows[1:] {
		vals := make([]Value, len(header))
		blank := true
		for ci, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return nil, err
			}
			vals[ci] = r.cellValue(sheet, cell, raw)
			blank = false
		}
		if !blank {
			out = append(out, vals)
		}
	}
	return NewTable(sheet, header, out), nil
}

func (r *sheetReader) cellValue(sheet, cell, raw string) Value {
	typ, err := r.f.GetCellType(sheet, cell)
	if err != nil {
		return String(raw)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return String(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return String("TRUE")
		}
		return String("FALSE")
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t)
			}
		}
		return String(raw)
	}
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return String(raw)
	}
	if r.isDateCell(sheet, cell) {
		if t, err := excelize.ExcelDateToTime(num, r.date1904); err == nil {
			return Date(t)
		}
	}
	return Number(num)
}

func (r *sheetReader) isDateCell(sheet, cell string) bool {
	idx, err := r.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if known, ok := r.dateStyles[idx]; ok {
		return known
	}
	isDate := false
	if st, err := r.f.GetStyle(idx); err == nil && st != nil {
		if st.CustomNumFmt != nil {
			isDate = isDateFormat(*st.CustomNumFmt)
		} else {
			isDate = isBuiltinDateFormat(st.NumFmt)
		}
	}
	r.dateStyles[idx] = isDate
	return isDate
}

func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom number format renders a date or time
// in any of its sections.
func isDateFormat(code string) bool {
	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(code) {
		for _, tok := range section.Items {
			switch tok.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}

// WriteXLSX writes the workbook as an .xlsx file: one sheet per table, a header
// row, and typed cells (dates keep a date number format).
func WriteXLSX(wb *Workbook, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return ErrNoSheets
	}
	for i, t := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("new sheet %q: %w", t.Name, err)
		}
		if err := writeTable(f, t); err != nil {
			return fmt.Errorf("sheet %q: %w", t.Name, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, t *Table) error {
	for j, c := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.Name, cell, c); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			var val any
			switch v.Kind {
			case KindNumber:
				val = v.Num
			case KindDate:
				val = v.Time
			case KindString, KindInvalidDate:
				val = v.Str
			default:
				continue
			}
			if err := f.SetCellValue(t.Name, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
