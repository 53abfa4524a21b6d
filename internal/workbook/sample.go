package workbook

import (
	"fmt"
	"time"
)

// SampleName is the workbook name reported for the synthetic dataset.
const SampleName = "sample"

var (
	sampleA = []float64{272, 147, 217, 292, 423, 259, 216, 370, 315, 481, 299, 372}
	sampleB = []float64{118, 109, 155, 177, 170, 162, 180, 171, 201, 205, 212, 195}
	sampleC = []float64{276, 206, 204, 279, 307, 248, 217, 169, 260, 302, 242, 288}
	sampleD = []float64{145, 185, 153, 200, 198, 212, 152, 193, 176, 174, 223, 198}
	sampleE = []float64{74, 145, 158, 200, 338, 154, 162, 117, 150, 106, 215, 183}

	sampleCost = []float64{149, 227, 293, 335, 197, 255, 190, 240, 265, 310, 205, 280}

	sampleDepartments = [][2]string{{"Planning", "기획부"}, {"Marketing", "마케팅부"}, {"Sales", "영업부"}, {"HR", "인사부"}, {"Engineering", "개발부"}}
	sampleDeptRevenue = []float64{954, 923, 559, 477, 209}

	sampleBubbleCost      = []float64{884, 759, 829, 392, 963, 510, 610, 420, 700, 560}
	sampleBubbleMargin    = []float64{699, 170, 572, 496, 414, 380, 420, 210, 460, 330}
	sampleBubbleCustomers = []float64{127, 122, 59, 198, 165, 110, 130, 95, 140, 120}
)

// SampleMonths returns the twelve month-end dates of 2023.
func SampleMonths() []time.Time {
	out := make([]time.Time, 12)
	for i := range out {
		// day 0 of the next month is the last day of this one
		out[i] = time.Date(2023, time.Month(i+2), 0, 0, 0, 0, 0, time.UTC)
	}
	return out
}

// SampleTotals returns the per-month total revenue of the sample bar sheet.
func SampleTotals() []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = sampleA[i] + sampleB[i] + sampleC[i] + sampleD[i] + sampleE[i]
	}
	return out
}

// Sample builds the deterministic synthetic workbook used when no file is
// uploaded. Sheet and column names follow the given schema.
func Sample(s Schema) *Workbook {
	months := SampleMonths()
	totals := SampleTotals()
	series := [][]float64{sampleA, sampleB, sampleC, sampleD, sampleE}
	productLabel := func(i int) string {
		if s.ID == Korean.ID {
			return fmt.Sprintf("제품 %c", 'A'+i)
		}
		return fmt.Sprintf("Product %c", 'A'+i)
	}

	var barRows, seriesRows [][]Value
	for i, m := range months {
		barRows = append(barRows, []Value{Date(m), Number(totals[i])})
		row := []Value{Date(m)}
		for _, col := range series {
			row = append(row, Number(col[i]))
		}
		seriesRows = append(seriesRows, row)
	}
	seriesCols := append([]string{s.Month}, s.SeriesProducts...)

	var pieRows [][]Value
	for i, col := range series {
		pieRows = append(pieRows, []Value{String(productLabel(i)), Number(col[0] + col[1] + col[2])})
	}

	var scatterRows [][]Value
	for i := range sampleA {
		scatterRows = append(scatterRows, []Value{Number(sampleA[i]), Number(sampleCost[i])})
	}

	var paretoRows [][]Value
	for i, d := range sampleDepartments {
		name := d[0]
		if s.ID == Korean.ID {
			name = d[1]
		}
		paretoRows = append(paretoRows, []Value{String(name), Number(sampleDeptRevenue[i])})
	}

	var bubbleRows [][]Value
	for i := range sampleBubbleCost {
		label := fmt.Sprintf("Product %d", i+1)
		if s.ID == Korean.ID {
			label = fmt.Sprintf("제품 %d", i+1)
		}
		bubbleRows = append(bubbleRows, []Value{
			String(label), Number(sampleBubbleCost[i]), Number(sampleBubbleMargin[i]), Number(sampleBubbleCustomers[i]),
		})
	}

	return New(SampleName,
		NewTable(s.BarSheet, []string{s.Month, s.TotalRevenue}, barRows),
		NewTable(s.SeriesSheet, seriesCols, seriesRows),
		NewTable(s.PieSheet, []string{s.Product, s.PieValue}, pieRows),
		NewTable(s.ScatterSheet, []string{s.ScatterX, s.ScatterY}, scatterRows),
		NewTable(s.ParetoSheet, []string{s.Department, s.Revenue}, paretoRows),
		NewTable(s.BubbleSheet, []string{s.Product, s.BubbleCost, s.Margin, s.CustomerCount}, bubbleRows),
	)
}
