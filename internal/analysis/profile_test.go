package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

var scores = []float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50, 10.1}

func scoreTable() *workbook.Table {
	groups := []string{"A", "A", "A", "B", "B", "B", "A", "B", "A", "B"}
	cats := []string{"alpha", "alpha", "beta", "alpha", "beta", "alpha", "gamma", "beta", "alpha", "gamma"}
	rows := make([][]workbook.Value, len(scores))
	for i, s := range scores {
		rows[i] = []workbook.Value{
			workbook.String(groups[i]),
			workbook.Number(s),
			workbook.Number(s * 2),
			workbook.String(cats[i]),
			workbook.Date(time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)),
		}
	}
	rows[3][3] = workbook.Empty()
	rows[9][4] = workbook.InvalidDate("TBD")
	return workbook.NewTable("scores", []string{"group", "score", "double", "category", "month"}, rows)
}

func TestProfileColumnsAndStats(t *testing.T) {
	opt := DefaultOptions()
	opt.Correlations = true
	opt.GroupBy = []string{"group"}
	rep := Profile(scoreTable(), opt)

	if rep.Name != "scores" || rep.Rows != 10 || rep.Processed != 10 {
		t.Fatalf("unexpected header: %+v", rep)
	}
	if len(rep.Samples) != opt.SampleRows {
		t.Fatalf("expected %d sample rows, got %d", opt.SampleRows, len(rep.Samples))
	}

	score := columnByName(t, rep, "score")
	if score.Kind != KindNumeric {
		t.Fatalf("score kind = %s", score.Kind)
	}
	checkStats(t, score, scores)
	if score.OutliersCount != 1 {
		t.Errorf("expected one outlier, got %d", score.OutliersCount)
	}
	if score.OutliersMaxAbsZ <= score.OutlierThreshold {
		t.Errorf("max |z| %.2f should exceed threshold %.2f", score.OutliersMaxAbsZ, score.OutlierThreshold)
	}

	cat := columnByName(t, rep, "category")
	if cat.Kind != KindCategorical {
		t.Fatalf("category kind = %s", cat.Kind)
	}
	if cat.Missing != 1 || cat.NonNull != 9 {
		t.Errorf("category missing/non-null = %d/%d", cat.Missing, cat.NonNull)
	}
	if cat.TopValues[0].Value != "alpha" || cat.TopValues[0].Count != 4 {
		t.Errorf("top category = %+v", cat.TopValues[0])
	}

	month := columnByName(t, rep, "month")
	if month.Kind != KindDatetime {
		t.Fatalf("month kind = %s", month.Kind)
	}
	if month.First != "2023-01-01" || month.Last != "2023-09-01" || month.InvalidDates != 1 {
		t.Errorf("month range = %s..%s invalid=%d", month.First, month.Last, month.InvalidDates)
	}

	if rep.Corr == nil || len(rep.Corr.Columns) != 2 {
		t.Fatalf("expected 2x2 correlation matrix, got %+v", rep.Corr)
	}
	if !almostEqual(rep.Corr.Values[0][1], 1, 1e-9) {
		t.Errorf("score~double r = %f, want 1", rep.Corr.Values[0][1])
	}

	if len(rep.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(rep.Groups))
	}
	for _, g := range rep.Groups {
		if g.Size != 5 {
			t.Errorf("group %s size %d", g.Key, g.Size)
		}
	}
}

func TestProfileMaxRowsWarns(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxRows = 4
	rep := Profile(scoreTable(), opt)
	if rep.Rows != 10 || rep.Processed != 4 {
		t.Fatalf("rows=%d processed=%d", rep.Rows, rep.Processed)
	}
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "processed only 4/10") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing MaxRows warning in %v", rep.Warnings)
	}
}

func TestProfileEmptyInputs(t *testing.T) {
	if rep := Profile(nil, DefaultOptions()); rep.Rows != 0 || len(rep.Cols) != 0 {
		t.Errorf("nil table should give empty report: %+v", rep)
	}
	blank := workbook.NewTable("blank", []string{"a"}, [][]workbook.Value{{workbook.Empty()}})
	rep := Profile(blank, DefaultOptions())
	if rep.Cols[0].Kind != KindEmpty || rep.Cols[0].Missing != 1 {
		t.Errorf("blank column = %+v", rep.Cols[0])
	}
}

func TestMarkdownSections(t *testing.T) {
	opt := DefaultOptions()
	opt.Correlations = true
	opt.GroupBy = []string{"group"}
	md := Profile(scoreTable(), opt).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Sheet: scores",
		"[SCHEMA]",
		"- score: numeric",
		"outliers: 1 above |z|>3.5",
		"- category: categorical",
		"alpha(4)",
		"- month: datetime",
		"invalid 1",
		"[GROUP-BY SUMMARY]",
		"[CORRELATIONS]",
		"score ~ double: r=1.000",
		"[HEAD AND SAMPLE ROWS]",
		"| group | score | double | category | month |",
		"[NOTES]",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestProfileWorkbookSample(t *testing.T) {
	s := workbook.Korean
	reps := ProfileWorkbook(workbook.Sample(s), DefaultOptions())
	if len(reps) != 6 {
		t.Fatalf("expected 6 reports, got %d", len(reps))
	}
	if reps[0].Name != s.BarSheet {
		t.Errorf("first report = %s", reps[0].Name)
	}
	total := columnByName(t, reps[0], s.TotalRevenue)
	if !almostEqual(total.Sum, 12927, 1e-9) {
		t.Errorf("total revenue sum = %f", total.Sum)
	}
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("가", 100)
	got := truncate(long, 80)
	if len([]rune(got)) != 80 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate produced %d runes", len([]rune(got)))
	}
	if truncate("short", 80) != "short" {
		t.Errorf("short strings must be untouched")
	}
}

func columnByName(t *testing.T, rep *Report, name string) ColumnSummary {
	t.Helper()
	for _, c := range rep.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not found", name)
	return ColumnSummary{}
}

func checkStats(t *testing.T, col ColumnSummary, vals []float64) {
	t.Helper()
	if !almostEqual(col.Mean, mean(vals), 1e-9) {
		t.Errorf("%s mean = %f, want %f", col.Name, col.Mean, mean(vals))
	}
	if !almostEqual(col.Std, sampleStd(vals), 1e-9) {
		t.Errorf("%s std = %f, want %f", col.Name, col.Std, sampleStd(vals))
	}
	if col.Min != 8.8 || col.Max != 50 {
		t.Errorf("%s min/max = %f/%f", col.Name, col.Min, col.Max)
	}
}

func mean(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func sampleStd(vals []float64) float64 {
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }
