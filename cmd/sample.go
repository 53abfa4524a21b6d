package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetloom/internal/utils"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

var (
	sampleOutput string
	sampleSchema string
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write the built-in sample workbook as .xlsx",
	Long:  `Writes the synthetic workbook the dashboard shows by default. It is a template for the expected sheet and column names.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id := cfg.Schema
		if sampleSchema != "" {
			id = sampleSchema
		}
		s, err := workbook.LookupSchema(id)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := workbook.WriteXLSX(workbook.Sample(s), &buf); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(sampleOutput, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote sample workbook to %s (sheets: %v)\n", sampleOutput, s.SheetNames())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "sample.xlsx", "path to write the workbook")
	sampleCmd.Flags().StringVar(&sampleSchema, "schema", "", "sheet and column names: en | ko (overrides config)")
}
