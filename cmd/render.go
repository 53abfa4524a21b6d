package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetloom/internal/dashboard"
	"github.com/KaramelBytes/sheetloom/internal/utils"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

var (
	renderOutput string
	renderFlags  pageFlags
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render the dashboard to a standalone HTML file",
	Long: `Renders the dashboard for the given workbook (or the sample when omitted) as a
single HTML page with the charts inlined. The page has no upload or theme
controls. Without --output the HTML is printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := renderFlags.options()
		if err != nil {
			return err
		}
		opt.Static = true

		wb := workbook.Sample(opt.Schema)
		if len(args) == 1 {
			if wb, err = workbook.LoadFile(args[0]); err != nil {
				return err
			}
		}
		page := dashboard.Build(wb, opt)

		var buf bytes.Buffer
		if err := page.Render(&buf); err != nil {
			return err
		}
		if renderOutput == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := utils.SafeWriteFile(renderOutput, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote dashboard to %s (%d of %d charts)\n", renderOutput, len(page.Ready()), len(page.Panels))
		for _, pn := range page.Panels {
			if pn.Status != dashboard.Ready {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s chart %s\n", pn.Kind, pn.Status)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "path to write the HTML page")
	renderFlags.register(renderCmd)
}
