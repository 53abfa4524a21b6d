// Package charts renders the dashboard's six chart types to SVG with
// go-chart. Builders consume prepared data from the metrics package and
// never modify it.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind names a chart panel.
type Kind string

const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
	KindPareto  Kind = "pareto"
	KindBubble  Kind = "bubble"
)

// Kinds lists the panels in page order.
func Kinds() []Kind {
	return []Kind{KindBar, KindLine, KindPie, KindScatter, KindPareto, KindBubble}
}

// Options are the display parameters shared by every builder.
type Options struct {
	Theme   Theme
	Palette Palette
	Width   int
	Height  int
}

// DefaultOptions returns the dark theme with the Dark24 palette.
func DefaultOptions() Options {
	p, _ := ParsePalette(DefaultPalette)
	return Options{Theme: ThemeDark, Palette: p, Width: 640, Height: 360}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Theme == "" {
		o.Theme = d.Theme
	}
	if len(o.Palette.Colors) == 0 {
		o.Palette = d.Palette
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

func (o Options) colors() colorPalette {
	tc, ok := themeTable[o.Theme]
	if !ok {
		tc = themeTable[ThemeDark]
	}
	return colorPalette{theme: tc, series: o.Palette}
}

func (o Options) gridStyle() chart.Style {
	return chart.Style{StrokeColor: o.colors().theme.grid, StrokeWidth: 1}
}

// Chart is a rendered chart. The SVG is produced once, at build time.
type Chart struct {
	Kind  Kind
	Title string
	svg   []byte
}

// SVG returns the rendered markup.
func (c *Chart) SVG() []byte { return c.svg }

// WriteTo writes the SVG markup.
func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.svg)
	return int64(n), err
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(kind Kind, title string, r renderable) (*Chart, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}
	return &Chart{Kind: kind, Title: title, svg: buf.Bytes()}, nil
}

var canvasPadding = chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}

var numberPrinter = message.NewPrinter(language.English)

// FormatThousands renders a number with comma grouping and no fraction when
// the value is whole.
func FormatThousands(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v == math.Trunc(v) {
		return numberPrinter.Sprintf("%.0f", v)
	}
	return numberPrinter.Sprintf("%.2f", v)
}

func thousandsFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return FormatThousands(math.Round(f))
	}
	return fmt.Sprintf("%v", v)
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f)
	}
	return fmt.Sprintf("%v", v)
}

// niceMax pads the top of a value axis so the tallest mark is not clipped.
func niceMax(max float64) float64 {
	if max <= 0 {
		return 1
	}
	return max * 1.1
}

func padRange(min, max float64) *chart.ContinuousRange {
	span := max - min
	if span == 0 {
		span = math.Max(math.Abs(max), 1)
	}
	return &chart.ContinuousRange{Min: min - span*0.1, Max: max + span*0.1}
}

func withAlpha(c drawing.Color, a uint8) drawing.Color {
	c.A = a
	return c
}
