package workbook

import (
	"fmt"
	"sort"
	"strings"
)

// Schema names the six recognized sheets and the columns the dashboard reads
// from them. Sheet identity is by exact string match.
type Schema struct {
	ID string

	BarSheet     string
	SeriesSheet  string
	PieSheet     string
	ScatterSheet string
	ParetoSheet  string
	BubbleSheet  string

	Month        string
	TotalRevenue string
	// PieValue is the preferred pie value column; see metrics.PieValueColumn
	// for the fallback.
	PieValue       string
	ScatterX       string
	ScatterY       string
	Department     string
	Revenue        string
	Product        string
	BubbleCost     string
	Margin         string
	CustomerCount  string
	SeriesProducts []string
}

// English is the default schema.
var English = Schema{
	ID:             "en",
	BarSheet:       "bar_histogram",
	SeriesSheet:    "time_series",
	PieSheet:       "pie",
	ScatterSheet:   "scatter",
	ParetoSheet:    "pareto",
	BubbleSheet:    "bubble",
	Month:          "month",
	TotalRevenue:   "total_revenue",
	PieValue:       "Q1 revenue",
	ScatterX:       "product_A_revenue",
	ScatterY:       "cost",
	Department:     "department",
	Revenue:        "revenue",
	Product:        "product",
	BubbleCost:     "cost",
	Margin:         "margin",
	CustomerCount:  "customer_count",
	SeriesProducts: []string{"product_A_revenue", "product_B_revenue", "product_C_revenue", "product_D_revenue", "product_E_revenue"},
}

// Korean carries the sheet and column names used by the Korean workbook
// template.
var Korean = Schema{
	ID:             "ko",
	BarSheet:       "바차트_히스토그램",
	SeriesSheet:    "시계열차트",
	PieSheet:       "파이차트",
	ScatterSheet:   "산점도",
	ParetoSheet:    "파레토차트",
	BubbleSheet:    "버블차트",
	Month:          "월",
	TotalRevenue:   "총 매출",
	PieValue:       "1분기 매출",
	ScatterX:       "제품 A 매출",
	ScatterY:       "비용",
	Department:     "부서",
	Revenue:        "매출",
	Product:        "제품",
	BubbleCost:     "제품별 비용",
	Margin:         "마진",
	CustomerCount:  "고객 수",
	SeriesProducts: []string{"제품 A 매출", "제품 B 매출", "제품 C 매출", "제품 D 매출", "제품 E 매출"},
}

var schemas = map[string]Schema{
	English.ID: English,
	Korean.ID:  Korean,
}

// LookupSchema resolves a schema id ("en", "ko").
func LookupSchema(id string) (Schema, error) {
	s, ok := schemas[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Schema{}, fmt.Errorf("unknown schema %q (use %s)", id, strings.Join(SchemaIDs(), "|"))
	}
	return s, nil
}

// SchemaIDs lists the built-in schema ids.
func SchemaIDs() []string {
	ids := make([]string, 0, len(schemas))
	for id := range schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SheetNames returns the six recognized sheet names in dashboard order.
func (s Schema) SheetNames() []string {
	return []string{s.BarSheet, s.SeriesSheet, s.PieSheet, s.ScatterSheet, s.ParetoSheet, s.BubbleSheet}
}
