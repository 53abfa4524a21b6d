package metrics

import "github.com/KaramelBytes/sheetloom/internal/workbook"

// Long-form column names produced by Melt.
const (
	MetricColumn = "metric"
	ValueColumn  = "value"
)

// Melt reshapes a wide table with one id column into long form with the
// columns (id, metric, value): one row per source row and metric column.
// Rows are grouped by metric in column order; within a group they keep the
// source order. Invalid dates are carried through untouched.
func Melt(t *workbook.Table, id string) (*workbook.Table, bool) {
	if t.Empty() {
		return nil, false
	}
	j, ok := t.Index(id)
	if !ok || len(t.Columns) < 2 {
		return nil, false
	}
	rows := make([][]workbook.Value, 0, t.Len()*(len(t.Columns)-1))
	for k, name := range t.Columns {
		if k == j {
			continue
		}
		for _, r := range t.Rows {
			rows = append(rows, []workbook.Value{r[j], workbook.String(name), r[k]})
		}
	}
	return workbook.NewTable(t.Name, []string{id, MetricColumn, ValueColumn}, rows), true
}

// Slice is one pie wedge.
type Slice = Category

// PieValueColumn picks the pie's value column: the preferred column when
// present, otherwise the first numeric column in declaration order. The
// fallback is a heuristic; with several numeric columns the choice is simply
// the leftmost one, which may be the label column itself if that is numeric.
func PieValueColumn(t *workbook.Table, preferred string) (string, bool) {
	if t.Empty() {
		return "", false
	}
	if t.Has(preferred) {
		return preferred, true
	}
	for j, c := range t.Columns {
		if t.NumericColumn(j) {
			return c, true
		}
	}
	return "", false
}

// PieSlices pairs the first column's labels with the chosen value column.
// Rows without a numeric value are skipped.
func PieSlices(t *workbook.Table, preferred string) ([]Slice, string, bool) {
	col, ok := PieValueColumn(t, preferred)
	if !ok {
		return nil, "", false
	}
	j, _ := t.Index(col)
	var out []Slice
	for _, r := range t.Rows {
		x, ok := r[j].Float()
		if !ok {
			continue
		}
		out = append(out, Slice{Label: r[0].String(), Value: x})
	}
	if len(out) == 0 {
		return nil, col, false
	}
	return out, col, true
}
