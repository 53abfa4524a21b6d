package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// csvDecoder loads a CSV/TSV file as a single-sheet workbook named after the
// file stem, so a CSV export of one sheet can stand in for that sheet.
type csvDecoder struct{}

func (csvDecoder) CanDecode(filename string) bool {
	return hasExt(filename, ".csv", ".tsv")
}

func (csvDecoder) Decode(filename string, data []byte) ([]*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(filename, data)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = headerName(h, i)
	}
	var rows [][]Value
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		row := make([]Value, len(rec))
		blank := true
		for j, raw := range rec {
			v := strings.TrimSpace(raw)
			if v == "" {
				continue
			}
			blank = false
			if f, ok := parseNumeric(v); ok {
				row[j] = Value{Kind: KindNumber, Num: f, Str: v}
			} else {
				row[j] = String(v)
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return []*Table{NewTable(name, cols, rows)}, nil
}

// sniffDelimiter prefers tab for .tsv, otherwise picks the most frequent of
// ',', ';' and tab on the header line.
func sniffDelimiter(filename string, data []byte) rune {
	if hasExt(filename, ".tsv") {
		return '\t'
	}
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	best, bestN := ',', bytes.Count(first, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// parseNumeric accepts plain numbers plus thousands separators ("1,234.5",
// "1.234,5"). Anything else stays text.
func parseNumeric(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, " ", "")
	raw = strings.ReplaceAll(raw, "\u00A0", "")
	if raw == "" {
		return 0, false
	}
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	case cpos >= 0:
		raw = strings.ReplaceAll(raw, ",", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
