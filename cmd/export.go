package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-insights/internal/aggregate"
	"github.com/sells-group/pipeline-insights/internal/export"
	"github.com/sells-group/pipeline-insights/internal/filter"
)

var (
	exportSource  string
	exportRecords string
	exportOwners  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered record set and owner performance as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if exportRecords == "" && exportOwners == "" {
			return eris.New("export: at least one of --records or --owners is required")
		}

		source := exportSource
		if source == "" {
			source = cfg.Source.Path
		}

		records, err := loadRecords(source, cfg.Source.Sheet)
		if err != nil {
			return err
		}

		fcfg, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		subset := filter.Apply(records, fcfg)

		if exportRecords != "" {
			if err := writeCSV(exportRecords, func(f *os.File) error {
				return export.WriteRecords(f, subset)
			}); err != nil {
				return err
			}
			zap.L().Info("records exported",
				zap.String("path", exportRecords),
				zap.Int("records", len(subset)),
			)
		}

		if exportOwners != "" {
			owners := aggregate.OwnerPerformance(subset)
			if err := writeCSV(exportOwners, func(f *os.File) error {
				return export.WriteOwners(f, owners)
			}); err != nil {
				return err
			}
			zap.L().Info("owner performance exported",
				zap.String("path", exportOwners),
				zap.Int("owners", len(owners)),
			)
		}

		return nil
	},
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()
	return write(f)
}

func init() {
	exportCmd.Flags().StringVar(&exportSource, "source", "", "input document (default from config)")
	exportCmd.Flags().StringVar(&exportRecords, "records", "", "path for the filtered record CSV")
	exportCmd.Flags().StringVar(&exportOwners, "owners-out", "", "path for the owner performance CSV")
	addFilterFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
