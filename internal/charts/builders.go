package charts

import (
	"errors"
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/sheetloom/internal/metrics"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// ErrNoData is returned when a builder has nothing to plot.
var ErrNoData = errors.New("no plottable rows")

// Palette slots used by the single-series charts.
const (
	barColor     = 3
	scatterColor = 4
)

// Bar plots value by month, one bar per row with a valid month, in month
// order.
func Bar(t *workbook.Table, month, value string, opt Options) (*Chart, error) {
	opt = opt.withDefaults()
	data, ok := metrics.Monthly(t, month, value)
	if !ok {
		return nil, fmt.Errorf("bar chart: %w", ErrNoData)
	}
	fill := opt.Palette.Color(barColor)
	var max float64
	bars := make([]chart.Value, len(data))
	for i, d := range data {
		max = math.Max(max, d.Value)
		bars[i] = chart.Value{
			Label: d.Label(),
			Value: d.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}
	barWidth, spacing := barGeometry(opt.Width, len(bars))
	bc := chart.BarChart{
		Width:        opt.Width,
		Height:       opt.Height,
		ColorPalette: opt.colors(),
		Background:   chart.Style{Padding: canvasPadding},
		BarWidth:     barWidth,
		BarSpacing:   spacing,
		XAxis:        chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:           value,
			Range:          &chart.ContinuousRange{Min: 0, Max: niceMax(max)},
			ValueFormatter: thousandsFormatter,
			GridMajorStyle: opt.gridStyle(),
			GridMinorStyle: opt.gridStyle(),
		},
		Bars: bars,
	}
	return render(KindBar, "Monthly "+value, bc)
}

// barGeometry spreads n bars over the plot width, keeping bars readable.
func barGeometry(width, n int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	slot := (width - 120) / n
	if slot < 10 {
		slot = 10
	}
	bw := slot * 2 / 3
	return bw, slot - bw
}

// Line plots one series per metric of a melted table whose first column is
// the month.
func Line(long *workbook.Table, opt Options) (*Chart, error) {
	opt = opt.withDefaults()
	if long.Empty() || len(long.Columns) == 0 {
		return nil, fmt.Errorf("line chart: %w", ErrNoData)
	}
	data, ok := metrics.SeriesFromLong(long, long.Columns[0])
	if !ok {
		return nil, fmt.Errorf("line chart: %w", ErrNoData)
	}
	series := make([]chart.Series, len(data))
	var months []time.Time
	var values []float64
	for i, s := range data {
		months = append(months, s.Months...)
		values = append(values, s.Values...)
		c := opt.Palette.Color(i)
		series[i] = chart.TimeSeries{
			Name:    s.Name,
			XValues: s.Months,
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 2,
				DotColor:    c,
				DotWidth:    3,
			},
		}
	}
	graph := chart.Chart{
		Width:        opt.Width,
		Height:       opt.Height,
		ColorPalette: opt.colors(),
		Background:   chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 56}},
		XAxis: chart.XAxis{
			Range:          monthRange(months),
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Range:          flatRange(values),
			ValueFormatter: thousandsFormatter,
			GridMajorStyle: opt.gridStyle(),
			GridMinorStyle: opt.gridStyle(),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
	return render(KindLine, "Monthly trend", graph)
}

// monthRange widens a single-month axis by half a month either side. Nil
// leaves the range to go-chart.
func monthRange(months []time.Time) *chart.ContinuousRange {
	lo, hi := bounds(timesToFloats(months))
	if len(months) == 0 || lo != hi {
		return nil
	}
	pad := float64(15 * 24 * time.Hour)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// flatRange pads a value axis whose values are all equal. Nil leaves the
// range to go-chart.
func flatRange(values []float64) *chart.ContinuousRange {
	lo, hi := bounds(values)
	if len(values) == 0 || lo != hi {
		return nil
	}
	return padRange(lo, hi)
}

func timesToFloats(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = chart.TimeToFloat64(t)
	}
	return out
}

// Pie draws one wedge per slice. Slices with a non-positive value cannot be
// drawn and are left out.
func Pie(slices []metrics.Slice, opt Options) (*Chart, error) {
	opt = opt.withDefaults()
	var total float64
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("pie chart: %w", ErrNoData)
	}
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Label, s.Value/total*100),
			Value: s.Value,
		})
	}
	pc := chart.PieChart{
		Width:        opt.Width,
		Height:       opt.Height,
		ColorPalette: opt.colors(),
		Background:   chart.Style{Padding: canvasPadding},
		Values:       values,
	}
	return render(KindPie, "Share by product", pc)
}

// Scatter plots y against x as unconnected points.
func Scatter(t *workbook.Table, x, y string, opt Options) (*Chart, error) {
	opt = opt.withDefaults()
	pts, ok := metrics.Points(t, x, y)
	if !ok {
		return nil, fmt.Errorf("scatter chart: %w", ErrNoData)
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	xmin, xmax := bounds(xs)
	ymin, ymax := bounds(ys)
	c := opt.Palette.Color(scatterColor)
	graph := chart.Chart{
		Width:        opt.Width,
		Height:       opt.Height,
		ColorPalette: opt.colors(),
		Background:   chart.Style{Padding: canvasPadding},
		XAxis:        chart.XAxis{Name: x, Range: padRange(xmin, xmax), ValueFormatter: thousandsFormatter},
		YAxis: chart.YAxis{
			Name:           y,
			Range:          padRange(ymin, ymax),
			ValueFormatter: thousandsFormatter,
			GridMajorStyle: opt.gridStyle(),
			GridMinorStyle: opt.gridStyle(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    y,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    c,
				},
			},
		},
	}
	return render(KindScatter, x+" vs "+y, graph)
}

// ParetoChart draws descending bars with the cumulative percentage on a
// secondary axis fixed to [0, 110].
func ParetoChart(rows []metrics.ParetoRow, opt Options) (*Chart, error) {
	opt = opt.withDefaults()
	if len(rows) == 0 {
		return nil, fmt.Errorf("pareto chart: %w", ErrNoData)
	}
	n := len(rows)
	xs := make([]float64, n)
	values := make([]float64, n)
	percents := make([]float64, n)
	// go-chart spans the axis from the first to the last tick, so unlabelled
	// edge ticks keep half a slot either side even for a single bar.
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: 0.5})
	var max float64
	for i, r := range rows {
		xs[i] = float64(i + 1)
		values[i] = r.Value
		percents[i] = r.Percent
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: r.Label})
		max = math.Max(max, r.Value)
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) + 0.5})
	bar := opt.Palette.Color(barColor)
	line := opt.Palette.Color(1)
	graph := chart.Chart{
		Width:        opt.Width,
		Height:       opt.Height,
		ColorPalette: opt.colors(),
		Background:   chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 48}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: niceMax(max)},
			ValueFormatter: thousandsFormatter,
			GridMajorStyle: opt.gridStyle(),
			GridMinorStyle: opt.gridStyle(),
		},
		YAxisSecondary: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: 110},
			ValueFormatter: percentFormatter,
		},
		Series: []chart.Series{
			chart.HistogramSeries{
				Name:  "Value",
				Style: chart.Style{FillColor: bar, StrokeColor: bar, StrokeWidth: 1},
				InnerSeries: chart.ContinuousSeries{
					XValues: xs,
					YValues: values,
				},
			},
			chart.ContinuousSeries{
				Name:    "Cumulative %",
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: percents,
				Style: chart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					DotColor:    line,
					DotWidth:    4,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
	return render(KindPareto, "Pareto", graph)
}

// Bubble radius bounds in pixels.
const (
	minBubble = 6.0
	maxBubble = 30.0
)

// Bubble plots labelled points whose radius scales with the size column.
func Bubble(t *workbook.Table, label, x, y, size string, opt Options) (*Chart, error) {
	opt = opt.withDefaults()
	data, ok := metrics.Bubbles(t, label, x, y, size)
	if !ok {
		return nil, fmt.Errorf("bubble chart: %w", ErrNoData)
	}
	n := len(data)
	xs := make([]float64, n)
	ys := make([]float64, n)
	sizes := make([]float64, n)
	notes := make([]chart.Value2, n)
	for i, b := range data {
		xs[i], ys[i], sizes[i] = b.X, b.Y, b.Size
		notes[i] = chart.Value2{XValue: b.X, YValue: b.Y, Label: b.Label}
	}
	radii := scaleSizes(sizes)
	xmin, xmax := bounds(xs)
	ymin, ymax := bounds(ys)
	graph := chart.Chart{
		Width:        opt.Width,
		Height:       opt.Height,
		ColorPalette: opt.colors(),
		Background:   chart.Style{Padding: canvasPadding},
		XAxis:        chart.XAxis{Name: x, Range: padRange(xmin, xmax), ValueFormatter: thousandsFormatter},
		YAxis: chart.YAxis{
			Name:           y,
			Range:          padRange(ymin, ymax),
			ValueFormatter: thousandsFormatter,
			GridMajorStyle: opt.gridStyle(),
			GridMinorStyle: opt.gridStyle(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    size,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    minBubble,
					DotColor:    opt.Palette.Color(0),
					DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
						return radii[index]
					},
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						return withAlpha(opt.Palette.Color(index), 190)
					},
				},
			},
			chart.AnnotationSeries{Annotations: notes},
		},
	}
	return render(KindBubble, "Cost, margin and customers", graph)
}

// scaleSizes maps raw sizes linearly onto [minBubble, maxBubble].
func scaleSizes(sizes []float64) []float64 {
	lo, hi := bounds(sizes)
	out := make([]float64, len(sizes))
	for i, s := range sizes {
		if hi == lo {
			out[i] = (minBubble + maxBubble) / 2
			continue
		}
		out[i] = minBubble + (s-lo)/(hi-lo)*(maxBubble-minBubble)
	}
	return out
}

func bounds(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, v := range xs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
