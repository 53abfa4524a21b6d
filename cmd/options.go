package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/dashboard"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// pageFlags are the display flags shared by serve and render. Empty values
// fall back to the loaded config.
type pageFlags struct {
	theme       string
	palette     string
	schema      string
	previewRows int
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.theme, "theme", "", "chart theme: dark | light (overrides config)")
	cmd.Flags().StringVar(&f.palette, "palette", "", "color palette: Plotly | Pastel | Dark24 | Set2 | Set3 (overrides config)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "sheet and column names: en | ko (overrides config)")
	cmd.Flags().IntVar(&f.previewRows, "preview-rows", 0, "rows shown per sheet in the raw preview (overrides config)")
}

// options resolves flags over config into dashboard options.
func (f *pageFlags) options() (dashboard.Options, error) {
	theme, palette, schema, rows := cfg.Theme, cfg.Palette, cfg.Schema, cfg.PreviewRows
	if f.theme != "" {
		theme = f.theme
	}
	if f.palette != "" {
		palette = f.palette
	}
	if f.schema != "" {
		schema = f.schema
	}
	if f.previewRows > 0 {
		rows = f.previewRows
	}

	t, err := charts.ParseTheme(theme)
	if err != nil {
		return dashboard.Options{}, err
	}
	p, err := charts.ParsePalette(palette)
	if err != nil {
		return dashboard.Options{}, err
	}
	s, err := workbook.LookupSchema(schema)
	if err != nil {
		return dashboard.Options{}, err
	}
	return dashboard.Options{
		Schema: s,
		Charts: charts.Options{
			Theme:   t,
			Palette: p,
			Width:   cfg.ChartWidth,
			Height:  cfg.ChartHeight,
		},
		PreviewRows: rows,
		Log:         logger,
	}, nil
}
