package main

import (
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-insights/internal/aggregate"
	"github.com/sells-group/pipeline-insights/internal/fetcher"
	"github.com/sells-group/pipeline-insights/internal/model"
	"github.com/sells-group/pipeline-insights/internal/normalize"
)

// loadRecords runs ingest and normalization for a source document.
// Missing canonical columns are logged and left unset; only an absent
// or unreadable source is fatal.
func loadRecords(path, sheet string) ([]model.Record, error) {
	table, err := fetcher.Read(path, fetcher.Options{SheetName: sheet})
	if err != nil {
		return nil, err
	}

	res := normalize.Run(table.Header, table.Rows)
	if len(res.Missing) > 0 {
		zap.L().Warn("expected columns not found in source",
			zap.Strings("columns", res.Missing),
			zap.String("source", path),
		)
	}

	zap.L().Info("source normalized",
		zap.String("source", path),
		zap.Int("rows_in", len(table.Rows)),
		zap.Int("records", len(res.Records)),
	)
	return res.Records, nil
}

func alertThresholds() aggregate.Thresholds {
	t := aggregate.DefaultThresholds()
	if cfg == nil {
		return t
	}
	if cfg.Alerts.MinPipelineValue > 0 {
		t.MinPipelineValue = cfg.Alerts.MinPipelineValue
	}
	if cfg.Alerts.MaxOwnerShare > 0 {
		t.MaxOwnerShare = cfg.Alerts.MaxOwnerShare
	}
	if cfg.Alerts.MinRecentDeals > 0 {
		t.MinRecentDeals = cfg.Alerts.MinRecentDeals
	}
	if cfg.Alerts.ActivityWindowDays > 0 {
		t.ActivityWindowDays = cfg.Alerts.ActivityWindowDays
	}
	return t
}
