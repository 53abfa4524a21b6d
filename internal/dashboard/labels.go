package dashboard

import (
	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// Labels is the page text for one schema's language.
type Labels struct {
	Lang          string
	Title         string
	Settings      string
	Theme         string
	Palette       string
	Upload        string
	Apply         string
	SampleNote    string
	AnnualTotal   string
	LatestTotal   string
	TopDepartment string
	SheetCount    string
	RawPreview    string
	RowsShown     string
	RenderFailed  string
	panels        map[charts.Kind]string
}

// Panel returns the heading for a chart panel.
func (l Labels) Panel(kind charts.Kind) string {
	if h, ok := l.panels[kind]; ok {
		return h
	}
	return string(kind)
}

var english = Labels{
	Lang:          "en",
	Title:         "Visualization dashboard",
	Settings:      "Settings",
	Theme:         "Chart theme",
	Palette:       "Color palette",
	Upload:        "Upload a workbook (.xlsx, .csv)",
	Apply:         "Apply",
	SampleNote:    "No file uploaded, showing sample data.",
	AnnualTotal:   "Annual total revenue",
	LatestTotal:   "Latest month total",
	TopDepartment: "Top department",
	SheetCount:    "Sheets",
	RawPreview:    "Raw data preview",
	RowsShown:     "rows shown of",
	RenderFailed:  "Chart could not be drawn",
	panels: map[charts.Kind]string{
		charts.KindBar:     "Monthly total revenue",
		charts.KindLine:    "Time-series trend",
		charts.KindPie:     "Share analysis",
		charts.KindScatter: "Scatter analysis",
		charts.KindPareto:  "Pareto chart",
		charts.KindBubble:  "Bubble chart",
	},
}

var korean = Labels{
	Lang:          "ko",
	Title:         "시각화 대시보드",
	Settings:      "설정",
	Theme:         "차트 테마",
	Palette:       "색상 팔레트",
	Upload:        "엑셀 파일 업로드 (.xlsx, .csv)",
	Apply:         "적용",
	SampleNote:    "업로드된 파일이 없어 샘플 데이터를 표시합니다.",
	AnnualTotal:   "연간 총 매출",
	LatestTotal:   "최근월 총 매출",
	TopDepartment: "Top 부서",
	SheetCount:    "시트 수",
	RawPreview:    "원시 데이터 미리보기",
	RowsShown:     "행 표시 / 전체",
	RenderFailed:  "차트를 그릴 수 없습니다",
	panels: map[charts.Kind]string{
		charts.KindBar:     "월별 총 매출",
		charts.KindLine:    "시계열 추세",
		charts.KindPie:     "비율 분석",
		charts.KindScatter: "산점도 분석",
		charts.KindPareto:  "파레토 차트",
		charts.KindBubble:  "버블 차트",
	},
}

// LabelsFor picks the page language from the schema.
func LabelsFor(s workbook.Schema) Labels {
	if s.ID == workbook.Korean.ID {
		return korean
	}
	return english
}
