package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// Options controls profiling of a sheet.
type Options struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for sheet profiling.
func DefaultOptions() Options {
	return Options{
		MaxRows:          100000,
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Column kinds reported by Profile.
const (
	KindNumeric     = "numeric"
	KindDatetime    = "datetime"
	KindCategorical = "categorical"
	KindText        = "text"
	KindEmpty       = "empty"
)

// Report is a markdown-friendly profile of one sheet.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
	Groups    []GroupResult
	Corr      *CorrMatrix
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	Sum  float64
	// Datetime range; InvalidDates counts cells marked as unparseable dates.
	First        string
	Last         string
	InvalidDates int
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

type colAcc struct {
	nonNil int
	miss   int
	// numeric stats via Welford
	n        int
	mean     float64
	m2       float64
	min, max float64
	sum      float64
	vals     []float64

	dtCnt   int
	badDate int
	first   string
	last    string
	txtCnt  int
	cats    map[string]int
	exText  []string
}

type pairAcc struct {
	n, sumX, sumY, sumXX, sumYY, sumXY float64
}

func (p *pairAcc) add(x, y float64) {
	p.n++
	p.sumX += x
	p.sumY += y
	p.sumXX += x * x
	p.sumYY += y * y
	p.sumXY += x * y
}

func (p *pairAcc) r() float64 {
	if p == nil || p.n < 2 {
		return 0
	}
	denom := math.Sqrt((p.n*p.sumXX - p.sumX*p.sumX) * (p.n*p.sumYY - p.sumY*p.sumY))
	if denom == 0 {
		return 0
	}
	r := (p.n*p.sumXY - p.sumX*p.sumY) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

type groupAcc struct {
	size int
	sum  map[int]float64
	cnt  map[int]int
	min  map[int]float64
	max  map[int]float64
}

// Profile summarizes one sheet. It never modifies t.
func Profile(t *workbook.Table, opt Options) *Report {
	rep := &Report{}
	if t == nil {
		return rep
	}
	rep.Name = t.Name
	ncol := len(t.Columns)
	if ncol == 0 {
		return rep
	}
	cols := make([]*colAcc, ncol)
	for i := range cols {
		cols[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}}
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	var gbIdx []int
	for _, name := range opt.GroupBy {
		if j, ok := t.Index(strings.TrimSpace(name)); ok {
			gbIdx = append(gbIdx, j)
		}
	}
	groups := map[string]*groupAcc{}
	pair := map[[2]int]*pairAcc{}

	for _, row := range t.Rows {
		rep.Rows++
		if rep.Processed >= maxRows {
			continue
		}
		rep.Processed++
		if len(rep.Samples) < sampleRows {
			cells := make([]string, ncol)
			for j, v := range row {
				cells[j] = v.String()
			}
			rep.Samples = append(rep.Samples, cells)
		}
		var ga *groupAcc
		if len(gbIdx) > 0 {
			parts := make([]string, len(gbIdx))
			for i, j := range gbIdx {
				parts[i] = fmt.Sprintf("%s=%s", t.Columns[j], safeVal(row[j].String()))
			}
			key := strings.Join(parts, " | ")
			if ga = groups[key]; ga == nil {
				ga = &groupAcc{sum: map[int]float64{}, cnt: map[int]int{}, min: map[int]float64{}, max: map[int]float64{}}
				groups[key] = ga
			}
			ga.size++
		}
		var rowNums map[int]float64
		if opt.Correlations {
			rowNums = map[int]float64{}
		}
		for j, v := range row {
			c := cols[j]
			if v.IsBlank() {
				c.miss++
				continue
			}
			c.nonNil++
			switch v.Kind {
			case workbook.KindNumber:
				x := v.Num
				c.n++
				c.sum += x
				c.min = math.Min(c.min, x)
				c.max = math.Max(c.max, x)
				delta := x - c.mean
				c.mean += delta / float64(c.n)
				c.m2 += delta * (x - c.mean)
				c.vals = append(c.vals, x)
				if rowNums != nil {
					rowNums[j] = x
				}
				if ga != nil {
					ga.sum[j] += x
					ga.cnt[j]++
					if m, ok := ga.min[j]; !ok || x < m {
						ga.min[j] = x
					}
					if m, ok := ga.max[j]; !ok || x > m {
						ga.max[j] = x
					}
				}
			case workbook.KindDate:
				c.dtCnt++
				s := v.String()
				if c.first == "" || s < c.first {
					c.first = s
				}
				if s > c.last {
					c.last = s
				}
			case workbook.KindInvalidDate:
				c.dtCnt++
				c.badDate++
			default:
				s := v.String()
				c.txtCnt++
				if len(c.cats) <= 10000 && len(s) <= 64 {
					c.cats[s]++
				}
				if len(c.exText) < 3 {
					c.exText = append(c.exText, s)
				}
			}
		}
		if len(rowNums) >= 2 {
			idxs := make([]int, 0, len(rowNums))
			for j := range rowNums {
				idxs = append(idxs, j)
			}
			sort.Ints(idxs)
			for a := 1; a < len(idxs); a++ {
				for b := 0; b < a; b++ {
					key := [2]int{idxs[b], idxs[a]}
					if pair[key] == nil {
						pair[key] = &pairAcc{}
					}
					pair[key].add(rowNums[idxs[b]], rowNums[idxs[a]])
				}
			}
		}
	}

	var numCols []int
	rep.Cols = make([]ColumnSummary, ncol)
	for j, c := range cols {
		s := ColumnSummary{Name: safeName(t.Columns[j]), NonNull: c.nonNil, Missing: c.miss}
		switch {
		case c.n > 0 && c.n >= c.dtCnt && c.n >= c.txtCnt:
			s.Kind = KindNumeric
			s.Min, s.Max, s.Mean, s.Sum = c.min, c.max, c.mean, c.sum
			if c.n > 1 {
				s.Std = math.Sqrt(c.m2 / float64(c.n-1))
			}
			numCols = append(numCols, j)
			if opt.Outliers && len(c.vals) >= 8 {
				s.OutlierThreshold = opt.OutlierThreshold
				if s.OutlierThreshold <= 0 {
					s.OutlierThreshold = 3.5
				}
				s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(c.vals, s.OutlierThreshold)
			}
		case c.dtCnt > 0 && c.dtCnt >= c.txtCnt:
			s.Kind = KindDatetime
			s.First, s.Last, s.InvalidDates = c.first, c.last, c.badDate
		case len(c.cats) > 0 && (len(c.cats)*2 <= c.txtCnt || c.txtCnt <= 20):
			s.Kind = KindCategorical
			s.TopValues, s.Unique = topValues(c.cats, 8), len(c.cats)
		case c.txtCnt > 0:
			s.Kind = KindText
			s.ExampleTexts = c.exText
		default:
			s.Kind = KindEmpty
		}
		rep.Cols[j] = s
	}

	if rep.Processed < rep.Rows {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", rep.Processed, rep.Rows))
	}
	for j, s := range rep.Cols {
		if s.InvalidDates > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %d value(s) could not be read as dates", t.Columns[j], s.InvalidDates))
		}
	}
	rep.Groups = buildGroups(groups, numCols, t.Columns)
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = buildCorr(pair, numCols, t.Columns)
	}
	return rep
}

// ProfileWorkbook profiles every sheet in workbook order.
func ProfileWorkbook(wb *workbook.Workbook, opt Options) []*Report {
	var out []*Report
	for _, t := range wb.Sheets() {
		out = append(out, Profile(t, opt))
	}
	return out
}

func topValues(cats map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

func buildGroups(groups map[string]*groupAcc, numCols []int, names []string) []GroupResult {
	if len(groups) == 0 {
		return nil
	}
	out := make([]GroupResult, 0, len(groups))
	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for _, j := range numCols {
			if ga.cnt[j] == 0 {
				continue
			}
			gr.Metrics[names[j]] = NumSummary{Count: ga.cnt[j], Min: ga.min[j], Max: ga.max[j], Mean: ga.sum[j] / float64(ga.cnt[j])}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

func buildCorr(pair map[[2]int]*pairAcc, numCols []int, names []string) *CorrMatrix {
	n := len(numCols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for a, ia := range numCols {
		m.Columns[a] = names[ia]
		m.Values[a] = make([]float64, n)
		for b, ib := range numCols {
			if a == b {
				m.Values[a][b] = 1
				continue
			}
			lo, hi := ia, ib
			if lo > hi {
				lo, hi = hi, lo
			}
			m.Values[a][b] = pair[[2]int{lo, hi}].r()
		}
	}
	return m
}

// robustOutliers counts values whose modified z-score exceeds thr.
func robustOutliers(vals []float64, thr float64) (int, float64) {
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	var cnt int
	var maxAbsZ float64
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			cnt++
		}
		maxAbsZ = math.Max(maxAbsZ, az)
	}
	return cnt, maxAbsZ
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
