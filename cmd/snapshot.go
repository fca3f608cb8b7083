package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-insights/internal/export"
	"github.com/sells-group/pipeline-insights/internal/store"
)

var snapshotSource string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage cached normalized snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Normalize the source document and cache the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		source := snapshotSource
		if source == "" {
			source = cfg.Source.Path
		}

		records, err := loadRecords(source, cfg.Source.Sheet)
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		snap, err := st.Save(ctx, source, records)
		if err != nil {
			return err
		}

		zap.L().Info("snapshot saved",
			zap.String("id", snap.ID),
			zap.String("source", snap.Source),
			zap.Int("records", snap.RowCount),
		)
		fmt.Println(snap.ID)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		snaps, err := st.List(ctx)
		if err != nil {
			return err
		}
		for _, s := range snaps {
			fmt.Printf("%s  %s  %d records  %s\n",
				s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.RowCount, s.Source)
		}
		return nil
	},
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <snapshot-id>",
	Short: "Write a cached snapshot as canonical CSV to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		snap, err := st.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return export.WriteRecords(os.Stdout, snap.Records)
	},
}

func init() {
	snapshotSaveCmd.Flags().StringVar(&snapshotSource, "source", "", "input document (default from config)")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotExportCmd)
	rootCmd.AddCommand(snapshotCmd)
}
