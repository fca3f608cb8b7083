package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-insights/internal/export"
)

var (
	convertOut   string
	convertSheet string
)

var convertCmd = &cobra.Command{
	Use:   "convert <source>",
	Short: "Convert an XLSX or CSV export to canonical CSV",
	Long: `Reads a pipeline export, normalizes it (header mapping, date parsing,
MRR coercion, empty-row pruning), and writes canonical CSV that the rest
of the pipeline re-loads losslessly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(args[0], convertSheet)
		if err != nil {
			return err
		}

		out, err := os.Create(convertOut)
		if err != nil {
			return eris.Wrapf(err, "convert: create %s", convertOut)
		}
		defer out.Close()

		if err := export.WriteRecords(out, records); err != nil {
			return err
		}

		zap.L().Info("convert complete",
			zap.String("source", args[0]),
			zap.String("output", convertOut),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertOut, "out", "mql.csv", "output CSV path")
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	rootCmd.AddCommand(convertCmd)
}
