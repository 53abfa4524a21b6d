package metrics

import "github.com/KaramelBytes/sheetloom/internal/workbook"

// ParetoRow is one category of a Pareto table.
type ParetoRow struct {
	Label      string
	Value      float64
	Cumulative float64
	// Percent is the running share of the total, in percent.
	Percent float64
}

// Pareto sorts categories by value descending (stable on sheet order) and
// attaches the running sum and running percentage of the total. The total is
// the final running sum, so the last row's percentage is exactly 100. A zero
// total yields no output.
func Pareto(t *workbook.Table, label, value string) ([]ParetoRow, bool) {
	rows, ok := ranked(t, label, value)
	if !ok {
		return nil, false
	}
	out := make([]ParetoRow, len(rows))
	var running float64
	for i, r := range rows {
		running += r.Value
		out[i] = ParetoRow{Label: r.Label, Value: r.Value, Cumulative: running}
	}
	total := running
	if total == 0 {
		return nil, false
	}
	for i := range out {
		out[i].Percent = out[i].Cumulative / total * 100
	}
	return out, true
}
