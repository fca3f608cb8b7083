package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/pipeline-insights/internal/aggregate"
	"github.com/sells-group/pipeline-insights/internal/filter"
)

var reportSource string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full pipeline and print the dashboard metrics",
	Long: `Runs ingest, normalization, filtering, and aggregation, then prints
key metrics, the monthly summary, the owner leaderboard, funnel
conversion rates, and any fired alerts.

Examples:
  # Full report over the configured source
  report

  # Only deals in Q1 for two owners
  report --from 2025-01-01 --to 2025-03-31 --owners "Ann Lee,Raj Patel"`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportSource, "source", "", "input document (default from config)")
	addFilterFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	source := reportSource
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

	p := message.NewPrinter(language.English)

	m := aggregate.Metrics(subset)
	fmt.Println("== Key Metrics ==")
	p.Printf("Total deals:    %d\n", m.TotalDeals)
	p.Printf("Pipeline value: $%.0f\n", m.PipelineValue)
	if m.AvgDealSize != nil {
		p.Printf("Avg deal size:  $%.0f\n", *m.AvgDealSize)
	} else {
		fmt.Println("Avg deal size:  N/A")
	}
	p.Printf("Active stages:  %d\n", m.ActiveStages)

	fmt.Println("\n== Deals by Stage ==")
	for _, s := range aggregate.StageDistribution(subset) {
		p.Printf("%-45s %5d deals  $%.0f\n", s.Stage, s.Count, s.MRR)
	}

	fmt.Println("\n== Monthly Summary ==")
	for _, s := range aggregate.MonthlySummaries(subset) {
		p.Printf("%s  deals=%d  mrr=$%.0f  deal growth=%s  mrr growth=%s\n",
			s.Month, s.Deals, s.MRR, pct(s.DealGrowth), pct(s.MRRGrowth))
	}

	fmt.Println("\n== Top Owners ==")
	for i, o := range aggregate.TopOwners(subset, 10) {
		p.Printf("%2d. %-30s deals=%d  total=$%.0f  avg=$%.0f\n",
			i+1, o.Owner, o.Deals, o.TotalMRR, o.AvgMRR)
	}

	fmt.Println("\n== Funnel Conversion ==")
	for _, c := range aggregate.FunnelConversions(subset) {
		p.Printf("%s -> %s: %d -> %d (%s)\n", c.From, c.To, c.FromCount, c.ToCount, pct(c.Rate))
	}

	fmt.Println("\n== Alerts ==")
	alerts := aggregate.EvaluateAlerts(subset, time.Now(), alertThresholds())
	if len(alerts) == 0 {
		fmt.Println("all metrics within normal ranges")
	}
	for _, a := range alerts {
		fmt.Printf("[%s] %s\n", a.Kind, a.Message)
	}

	return nil
}

func pct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}
