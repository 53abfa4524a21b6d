package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetloom/internal/analysis"
	"github.com/KaramelBytes/sheetloom/internal/dashboard"
	"github.com/KaramelBytes/sheetloom/internal/utils"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

var (
	insOutputPath string
	insSheet      string
	insSchema     string
	insSampleRows int
	insMaxRows    int
	insGroupBy    []string
	insCorr       bool
	insOutliers   bool
	insOutlierThr float64
	insJSON       bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile every sheet of a workbook and check chart coverage",
	Long: `Profiles each sheet (column kinds, statistics, samples) and reports which
dashboard charts the workbook can feed. Use --sheet to limit the profile to one
sheet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := workbook.LoadFile(args[0])
		if err != nil {
			return err
		}
		id := cfg.Schema
		if insSchema != "" {
			id = insSchema
		}
		s, err := workbook.LookupSchema(id)
		if err != nil {
			return err
		}

		opt := analysis.DefaultOptions()
		if insSampleRows > 0 {
			opt.SampleRows = insSampleRows
		}
		if insMaxRows >= 0 {
			opt.MaxRows = insMaxRows
		}
		for _, g := range insGroupBy {
			if g = strings.TrimSpace(g); g != "" {
				opt.GroupBy = append(opt.GroupBy, g)
			}
		}
		opt.Correlations = insCorr
		opt.Outliers = insOutliers
		if insOutlierThr > 0 {
			opt.OutlierThreshold = insOutlierThr
		}

		var reports []*analysis.Report
		if insSheet != "" {
			t, ok := wb.Lookup(insSheet)
			if !ok {
				return fmt.Errorf("sheet %q not found (have: %s)", insSheet, strings.Join(wb.Names(), ", "))
			}
			reports = append(reports, analysis.Profile(t, opt))
		} else {
			reports = analysis.ProfileWorkbook(wb, opt)
		}
		page := dashboard.Build(wb, dashboard.Options{Schema: s, Log: logger})

		var out []byte
		if insJSON {
			b, err := utils.PrettyJSON(reports)
			if err != nil {
				return err
			}
			out = append(b, '\n')
		} else {
			var sb strings.Builder
			for _, r := range reports {
				sb.WriteString(r.Markdown())
				sb.WriteString("\n")
			}
			sb.WriteString(coverage(page))
			out = []byte(sb.String())
		}

		if insOutputPath != "" {
			if err := utils.SafeWriteFile(insOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote inspection of %d sheet(s) to %s\n", len(reports), insOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// coverage lists which panels the workbook can feed.
func coverage(p *dashboard.Page) string {
	var sb strings.Builder
	sb.WriteString("[CHART COVERAGE]\n")
	for _, pn := range p.Panels {
		switch {
		case pn.Status == dashboard.Ready:
			fmt.Fprintf(&sb, "✓ %s\n", pn.Kind)
		case len(pn.Missing) > 0:
			fmt.Fprintf(&sb, "⚠ %s: missing %s\n", pn.Kind, strings.Join(pn.Missing, ", "))
		case pn.Err != "":
			fmt.Fprintf(&sb, "✗ %s: %s\n", pn.Kind, pn.Err)
		default:
			fmt.Fprintf(&sb, "⚠ %s: no plottable rows\n", pn.Kind)
		}
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the report")
	inspectCmd.Flags().StringVar(&insSheet, "sheet", "", "profile only this sheet")
	inspectCmd.Flags().StringVar(&insSchema, "schema", "", "sheet and column names for the coverage check: en | ko (overrides config)")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of sample rows to include")
	inspectCmd.Flags().IntVar(&insMaxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	inspectCmd.Flags().StringSliceVar(&insGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	inspectCmd.Flags().BoolVar(&insCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	inspectCmd.Flags().BoolVar(&insOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	inspectCmd.Flags().Float64Var(&insOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	inspectCmd.Flags().BoolVar(&insJSON, "json", false, "emit the profiles as JSON instead of Markdown")
}
