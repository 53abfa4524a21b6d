package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

func without(wb *workbook.Workbook, sheet string) *workbook.Workbook {
	var keep []*workbook.Table
	for _, t := range wb.Sheets() {
		if t.Name != sheet {
			keep = append(keep, t)
		}
	}
	return workbook.New("upload.xlsx", keep...)
}

func TestBuildSampleHasEverything(t *testing.T) {
	page := Build(workbook.Sample(workbook.English), Options{Schema: workbook.English, Log: zap.NewNop()})

	require.Len(t, page.KPIs, 4)
	assert.Equal(t, "12,927", page.KPIs[0].Value)
	assert.Equal(t, "1,236", page.KPIs[1].Value)
	assert.Equal(t, "2023-12", page.KPIs[1].Detail)
	assert.Equal(t, "Planning", page.KPIs[2].Value)
	assert.Equal(t, "954", page.KPIs[2].Detail)
	assert.Equal(t, "6", page.KPIs[3].Value)

	require.Len(t, page.Panels, 6)
	for i, kind := range charts.Kinds() {
		assert.Equal(t, kind, page.Panels[i].Kind)
		assert.Equal(t, Ready, page.Panels[i].Status, "%s: %s", kind, page.Panels[i].Err)
	}
	assert.True(t, page.Sample)
	assert.Len(t, page.Previews, 6)
	assert.Len(t, page.Previews[0].Rows, 12)
}

func TestMissingScatterSheetOnlyDropsScatter(t *testing.T) {
	s := workbook.Korean
	wb := without(workbook.Sample(s), s.ScatterSheet)
	page := Build(wb, Options{Schema: s})

	scatter, ok := page.Panel(charts.KindScatter)
	require.True(t, ok)
	assert.Equal(t, Skipped, scatter.Status)
	assert.Len(t, page.Ready(), 5)
	assert.Equal(t, "5", page.KPIs[3].Value)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "시각화 대시보드")
	assert.Contains(t, html, "연간 총 매출")
	assert.NotContains(t, html, `id="panel-scatter"`)
	assert.Contains(t, html, `id="panel-pareto"`)
}

func TestSingleRowWorkbookRendersEveryPanel(t *testing.T) {
	s := workbook.English
	jan := workbook.Date(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	num := workbook.Number
	wb := workbook.New("one.xlsx",
		workbook.NewTable(s.BarSheet, []string{s.Month, s.TotalRevenue}, [][]workbook.Value{{jan, num(885)}}),
		workbook.NewTable(s.SeriesSheet, []string{s.Month, "revenue", "cost"}, [][]workbook.Value{{jan, num(885), num(410)}}),
		workbook.NewTable(s.PieSheet, []string{s.Product, s.PieValue}, [][]workbook.Value{{workbook.String("A"), num(10)}}),
		workbook.NewTable(s.ScatterSheet, []string{s.ScatterX, s.ScatterY}, [][]workbook.Value{{num(30), num(12)}}),
		workbook.NewTable(s.ParetoSheet, []string{s.Department, s.Revenue}, [][]workbook.Value{{workbook.String("Sales"), num(1200)}}),
		workbook.NewTable(s.BubbleSheet, []string{s.Product, s.BubbleCost, s.Margin, s.CustomerCount}, [][]workbook.Value{
			{workbook.String("Product 1"), num(30), num(0.2), num(12)},
		}),
	)
	page := Build(wb, Options{Schema: s})

	require.Len(t, page.Panels, 6)
	for _, pn := range page.Panels {
		assert.Equal(t, Ready, pn.Status, "%s: %s", pn.Kind, pn.Err)
	}
	require.Len(t, page.KPIs, 4)
	assert.Equal(t, "885", page.KPIs[0].Value)
	assert.Equal(t, "Sales", page.KPIs[2].Value)
}

func TestInvalidMonthStaysInPreview(t *testing.T) {
	s := workbook.English
	day := func(m int) workbook.Value {
		return workbook.Date(time.Date(2023, time.Month(m), 28, 0, 0, 0, 0, time.UTC))
	}
	bar := workbook.NewTable(s.BarSheet, []string{s.Month, s.TotalRevenue}, [][]workbook.Value{
		{day(1), workbook.Number(10)},
		{workbook.String("not a month"), workbook.Number(5)},
		{day(2), workbook.Number(20)},
	})
	page := Build(workbook.New("odd.xlsx", bar), Options{Schema: s})

	require.NotEmpty(t, page.KPIs)
	assert.Equal(t, "35", page.KPIs[0].Value)

	p, ok := page.Panel(charts.KindBar)
	require.True(t, ok)
	assert.Equal(t, Ready, p.Status)

	require.Len(t, page.Previews, 1)
	assert.Equal(t, "not a month", page.Previews[0].Rows[1][0])

	for _, kind := range []charts.Kind{charts.KindLine, charts.KindPie, charts.KindScatter, charts.KindPareto, charts.KindBubble} {
		pn, ok := page.Panel(kind)
		require.True(t, ok)
		assert.Equal(t, Skipped, pn.Status, kind)
	}
}

func TestRenderSample(t *testing.T) {
	light, err := charts.ParsePalette("Pastel")
	require.NoError(t, err)
	page := Build(workbook.Sample(workbook.English), Options{
		Charts: charts.Options{Theme: charts.ThemeLight, Palette: light},
		Key:    "abc123",
	})
	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, "Visualization dashboard")
	assert.Contains(t, html, `<body class="light">`)
	assert.Contains(t, html, `value="Pastel" selected`)
	assert.Contains(t, html, `name="wb" value="abc123"`)
	assert.Contains(t, html, "data:image/svg+xml;base64,")
	assert.Contains(t, html, `action="/upload"`)
	assert.Equal(t, 6, strings.Count(html, `<div class="panel" id="panel-`))
}

func TestStaticAndErrorPages(t *testing.T) {
	page := Build(workbook.Sample(workbook.English), Options{Static: true})
	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.NotContains(t, buf.String(), "<form")

	buf.Reset()
	require.NoError(t, ErrorPage("cannot read workbook bad.xlsx: zip: not a valid zip file", Options{}).Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "cannot read workbook bad.xlsx")
	assert.NotContains(t, html, `class="kpi"`)
}
