package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pipeline-insights/internal/filter"
)

// addFilterFlags registers the shared subset flags used by report and
// export. Their shape mirrors the Filter Engine config exactly.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("from", "", "start of stage-date range, inclusive (YYYY-MM-DD)")
	f.String("to", "", "end of stage-date range, inclusive (YYYY-MM-DD)")
	f.StringSlice("stages", nil, "stages to keep (default all)")
	f.StringSlice("owners", nil, "deal owners to keep (default all)")
	f.Float64("min-mrr", -1, "minimum MRR, inclusive")
	f.Float64("max-mrr", -1, "maximum MRR, inclusive")
}

func filterFromFlags(cmd *cobra.Command) (filter.Config, error) {
	var cfg filter.Config

	if v, _ := cmd.Flags().GetString("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return cfg, eris.Errorf("--from: %q is not a YYYY-MM-DD date", v)
		}
		cfg.DateFrom = t
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return cfg, eris.Errorf("--to: %q is not a YYYY-MM-DD date", v)
		}
		cfg.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}

	cfg.Stages, _ = cmd.Flags().GetStringSlice("stages")
	cfg.Owners, _ = cmd.Flags().GetStringSlice("owners")

	if v, _ := cmd.Flags().GetFloat64("min-mrr"); v >= 0 {
		cfg.MinMRR = &v
	}
	if v, _ := cmd.Flags().GetFloat64("max-mrr"); v >= 0 {
		cfg.MaxMRR = &v
	}
	return cfg, nil
}
