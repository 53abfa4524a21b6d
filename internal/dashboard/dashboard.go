// Package dashboard assembles the page model from a workbook: the four KPI
// cards, the six chart panels and the raw-data previews. Build never fails;
// missing sheets or columns simply leave the dependent card or panel out.
package dashboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetloom/internal/analysis"
	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/metrics"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// Options controls a single page build.
type Options struct {
	Schema      workbook.Schema
	Charts      charts.Options
	PreviewRows int
	// Key is the cache key of an uploaded workbook; empty for the sample.
	Key string
	// Static drops the interactive controls, for pages written to disk.
	Static bool
	Log    *zap.Logger
}

// KPI is one summary card.
type KPI struct {
	Label  string
	Value  string
	Detail string
}

// Status tells whether a panel was drawn.
type Status int

const (
	Ready Status = iota
	// Skipped panels lack a required sheet, column or any plottable row.
	Skipped
	// Failed panels had data but the chart could not be rendered.
	Failed
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Panel is one chart slot on the page.
type Panel struct {
	Kind    charts.Kind
	Heading string
	Status  Status
	Chart   *charts.Chart
	// Missing lists absent columns when the panel was skipped for a schema gap.
	Missing []string
	Err     string
}

// DataURI embeds the SVG as an image source. Served this way the markup
// cannot run script even when sheet text ends up in labels.
func (p Panel) DataURI() template.URL {
	if p.Chart == nil {
		return ""
	}
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(p.Chart.SVG()))
}

// Preview is the raw view of one sheet.
type Preview struct {
	Sheet   string
	Columns []string
	Rows    [][]string
	Total   int
	Profile []string
}

// Page is everything the template needs.
type Page struct {
	Labels   Labels
	Source   string
	Key      string
	Sample   bool
	Static   bool
	Theme    charts.Theme
	Palette  string
	Themes   []charts.Theme
	Palettes []string
	Swatches []string
	KPIs     []KPI
	Panels   []Panel
	Previews []Preview
	// Error replaces the dashboard when the upload could not be read.
	Error string
}

// Panel returns the panel of the given kind if it was laid out.
func (p *Page) Panel(kind charts.Kind) (*Panel, bool) {
	for i := range p.Panels {
		if p.Panels[i].Kind == kind {
			return &p.Panels[i], true
		}
	}
	return nil, false
}

// Ready lists the drawn panels in page order.
func (p *Page) Ready() []Panel {
	var out []Panel
	for _, pn := range p.Panels {
		if pn.Status == Ready {
			out = append(out, pn)
		}
	}
	return out
}

func (o Options) withDefaults() Options {
	if o.Schema.ID == "" {
		o.Schema = workbook.English
	}
	if o.PreviewRows <= 0 {
		o.PreviewRows = 20
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	d := charts.DefaultOptions()
	if o.Charts.Theme == "" {
		o.Charts.Theme = d.Theme
	}
	if len(o.Charts.Palette.Colors) == 0 {
		o.Charts.Palette = d.Palette
	}
	return o
}

func shell(opt Options) *Page {
	p := &Page{
		Labels:   LabelsFor(opt.Schema),
		Key:      opt.Key,
		Static:   opt.Static,
		Theme:    opt.Charts.Theme,
		Palette:  opt.Charts.Palette.Name,
		Themes:   charts.Themes(),
		Palettes: charts.PaletteNames(),
	}
	for i := range opt.Charts.Palette.Colors {
		p.Swatches = append(p.Swatches, opt.Charts.Palette.Hex(i))
	}
	return p
}

// ErrorPage is the page shown instead of the dashboard when a load fails.
func ErrorPage(msg string, opt Options) *Page {
	opt = opt.withDefaults()
	p := shell(opt)
	p.Error = msg
	return p
}

// Build derives every card, panel and preview from wb.
func Build(wb *workbook.Workbook, opt Options) *Page {
	opt = opt.withDefaults()
	s := opt.Schema
	log := opt.Log.With(zap.String("workbook", wb.Name))
	p := shell(opt)
	p.Source = wb.Name
	p.Sample = wb.Name == workbook.SampleName

	bar := workbook.NormalizeMonth(wb.Sheet(s.BarSheet), s.Month)
	series := workbook.NormalizeMonth(wb.Sheet(s.SeriesSheet), s.Month)
	pie := wb.Sheet(s.PieSheet)
	scatter := wb.Sheet(s.ScatterSheet)
	pareto := wb.Sheet(s.ParetoSheet)
	bubble := wb.Sheet(s.BubbleSheet)

	p.KPIs = buildKPIs(wb, bar, series, pareto, s, p.Labels)

	gap := func(kind charts.Kind, t *workbook.Table, cols ...string) (Panel, bool) {
		pn := Panel{Kind: kind, Heading: p.Labels.Panel(kind)}
		if t.Empty() {
			pn.Status = Skipped
			pn.Missing = cols
			log.Debug("panel skipped", zap.String("panel", string(kind)), zap.String("sheet", t.Name), zap.String("reason", "no rows"))
			return pn, true
		}
		if missing := t.Missing(cols...); len(missing) > 0 {
			pn.Status = Skipped
			pn.Missing = missing
			log.Debug("panel skipped", zap.String("panel", string(kind)), zap.String("sheet", t.Name), zap.Strings("missing", missing))
			return pn, true
		}
		return pn, false
	}
	draw := func(pn Panel, c *charts.Chart, err error) Panel {
		switch {
		case err == nil:
			pn.Status = Ready
			pn.Chart = c
		case errors.Is(err, charts.ErrNoData):
			pn.Status = Skipped
			log.Debug("panel skipped", zap.String("panel", string(pn.Kind)), zap.Error(err))
		default:
			pn.Status = Failed
			pn.Err = err.Error()
			log.Warn("chart render failed", zap.String("panel", string(pn.Kind)), zap.Error(err))
		}
		return pn
	}

	if pn, skip := gap(charts.KindBar, bar, s.Month, s.TotalRevenue); skip {
		p.Panels = append(p.Panels, pn)
	} else {
		c, err := charts.Bar(bar, s.Month, s.TotalRevenue, opt.Charts)
		p.Panels = append(p.Panels, draw(pn, c, err))
	}

	if pn, skip := gap(charts.KindLine, series, s.Month); skip {
		p.Panels = append(p.Panels, pn)
	} else if long, ok := metrics.Melt(series, s.Month); !ok {
		pn.Status = Skipped
		p.Panels = append(p.Panels, pn)
	} else {
		c, err := charts.Line(long, opt.Charts)
		p.Panels = append(p.Panels, draw(pn, c, err))
	}

	if pn, skip := gap(charts.KindPie, pie); skip {
		p.Panels = append(p.Panels, pn)
	} else if slices, _, ok := metrics.PieSlices(pie, s.PieValue); !ok {
		pn.Status = Skipped
		pn.Missing = []string{s.PieValue}
		log.Debug("panel skipped", zap.String("panel", string(pn.Kind)), zap.String("reason", "no numeric column"))
		p.Panels = append(p.Panels, pn)
	} else {
		c, err := charts.Pie(slices, opt.Charts)
		p.Panels = append(p.Panels, draw(pn, c, err))
	}

	if pn, skip := gap(charts.KindScatter, scatter, s.ScatterX, s.ScatterY); skip {
		p.Panels = append(p.Panels, pn)
	} else {
		c, err := charts.Scatter(scatter, s.ScatterX, s.ScatterY, opt.Charts)
		p.Panels = append(p.Panels, draw(pn, c, err))
	}

	if pn, skip := gap(charts.KindPareto, pareto, s.Department, s.Revenue); skip {
		p.Panels = append(p.Panels, pn)
	} else if rows, ok := metrics.Pareto(pareto, s.Department, s.Revenue); !ok {
		pn.Status = Skipped
		p.Panels = append(p.Panels, pn)
	} else {
		c, err := charts.ParetoChart(rows, opt.Charts)
		p.Panels = append(p.Panels, draw(pn, c, err))
	}

	if pn, skip := gap(charts.KindBubble, bubble, s.Product, s.BubbleCost, s.Margin, s.CustomerCount); skip {
		p.Panels = append(p.Panels, pn)
	} else {
		c, err := charts.Bubble(bubble, s.Product, s.BubbleCost, s.Margin, s.CustomerCount, opt.Charts)
		p.Panels = append(p.Panels, draw(pn, c, err))
	}

	p.Previews = buildPreviews(wb, opt.PreviewRows)
	log.Debug("page built", zap.Int("kpis", len(p.KPIs)), zap.Int("panels", len(p.Ready())))
	return p
}

func buildKPIs(wb *workbook.Workbook, bar, series, pareto *workbook.Table, s workbook.Schema, l Labels) []KPI {
	var out []KPI
	if total, ok := metrics.AnnualTotal(bar, s.Month, s.TotalRevenue); ok {
		out = append(out, KPI{Label: l.AnnualTotal, Value: charts.FormatThousands(total)})
	}
	if latest, ok := metrics.LatestPeriodTotal(series, s.Month); ok {
		out = append(out, KPI{
			Label:  l.LatestTotal,
			Value:  charts.FormatThousands(latest.Total),
			Detail: latest.Month.Format("2006-01"),
		})
	}
	if top, ok := metrics.TopCategory(pareto, s.Department, s.Revenue); ok {
		out = append(out, KPI{Label: l.TopDepartment, Value: top.Label, Detail: charts.FormatThousands(top.Value)})
	}
	out = append(out, KPI{Label: l.SheetCount, Value: fmt.Sprint(metrics.SheetCount(wb))})
	return out
}

func buildPreviews(wb *workbook.Workbook, n int) []Preview {
	opt := analysis.DefaultOptions()
	opt.SampleRows = n
	var out []Preview
	for _, t := range wb.Sheets() {
		rep := analysis.Profile(t, opt)
		pv := Preview{Sheet: t.Name, Columns: t.Columns, Total: t.Len()}
		if t.Len() > 0 {
			pv.Rows = rep.Samples
		}
		for _, c := range rep.Cols {
			pv.Profile = append(pv.Profile, c.Line())
		}
		out = append(out, pv)
	}
	return out
}
