// Package aggregate computes the derived metrics behind every report:
// stage distribution, monthly series, growth rates, owner performance,
// and funnel conversion. All functions are pure and deterministic, and
// an empty input produces empty output rather than an error.
package aggregate

import (
	"sort"

	"github.com/sells-group/pipeline-insights/internal/model"
	"github.com/sells-group/pipeline-insights/internal/stage"
)

// StageMetric is one stage's share of the record set.
type StageMetric struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	MRR   float64 `json:"mrr"`
}

// MonthPoint is one month's slice of a time series. Only months with at
// least one record appear; empty months are never synthesized.
type MonthPoint struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	MRR   float64 `json:"mrr"`
}

// MonthStageMetric is one (month, stage) cell of a stacked time view.
type MonthStageMetric struct {
	Month string  `json:"month"`
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	MRR   float64 `json:"mrr"`
}

// MonthSummary is one row of the monthly summary table. Growth values
// are nil for the first month and whenever the previous value is zero.
type MonthSummary struct {
	Month      string   `json:"month"`
	Deals      int      `json:"deals"`
	MRR        float64  `json:"mrr"`
	DealGrowth *float64 `json:"deal_growth,omitempty"`
	MRRGrowth  *float64 `json:"mrr_growth,omitempty"`
}

// OwnerMetric is one owner's aggregate performance.
type OwnerMetric struct {
	Owner    string  `json:"owner"`
	Deals    int     `json:"deals"`
	TotalMRR float64 `json:"total_mrr"`
	AvgMRR   float64 `json:"avg_mrr"`
}

// Conversion is the transition rate between two consecutive stages.
// Rate is nil when the from-stage count is zero.
type Conversion struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	FromCount int      `json:"from_count"`
	ToCount   int      `json:"to_count"`
	Rate      *float64 `json:"rate,omitempty"`
}

// KeyMetrics is the headline card row. AvgDealSize is nil for an empty
// set.
type KeyMetrics struct {
	TotalDeals    int      `json:"total_deals"`
	PipelineValue float64  `json:"pipeline_value"`
	AvgDealSize   *float64 `json:"avg_deal_size,omitempty"`
	ActiveStages  int      `json:"active_stages"`
}

// CountByStage counts records per raw stage value, including values
// outside the canonical vocabulary.
func CountByStage(records []model.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Stage != "" {
			counts[r.Stage]++
		}
	}
	return counts
}

// StageDistribution returns count and MRR sum per stage, restricted to
// vocabulary stages present in the set, in vocabulary order.
func StageDistribution(records []model.Record) []StageMetric {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, r := range records {
		if !stage.Known(r.Stage) {
			continue
		}
		counts[r.Stage]++
		sums[r.Stage] += r.MRRClean
	}

	present := stage.OrderedPresent(records)
	out := make([]StageMetric, 0, len(present))
	for _, s := range present {
		out = append(out, StageMetric{Stage: s, Count: counts[s], MRR: sums[s]})
	}
	return out
}

// MonthlySeries returns record count and MRR sum per calendar month of
// the stage date, ascending. Records without a stage date are skipped.
func MonthlySeries(records []model.Record) []MonthPoint {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, r := range records {
		m := r.Month()
		if m == "" {
			continue
		}
		counts[m]++
		sums[m] += r.MRRClean
	}

	out := make([]MonthPoint, 0, len(counts))
	for m := range counts {
		out = append(out, MonthPoint{Month: m, Count: counts[m], MRR: sums[m]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthlyByStage returns (month, stage) count and MRR cells for stacked
// time views: months ascending, stages in vocabulary order within each
// month. Only vocabulary stages and dated records contribute.
func MonthlyByStage(records []model.Record) []MonthStageMetric {
	type key struct{ month, stage string }
	counts := make(map[key]int)
	sums := make(map[key]float64)
	months := make(map[string]bool)
	for _, r := range records {
		m := r.Month()
		if m == "" || !stage.Known(r.Stage) {
			continue
		}
		k := key{m, r.Stage}
		counts[k]++
		sums[k] += r.MRRClean
		months[m] = true
	}

	ordered := make([]string, 0, len(months))
	for m := range months {
		ordered = append(ordered, m)
	}
	sort.Strings(ordered)

	present := stage.OrderedPresent(records)
	var out []MonthStageMetric
	for _, m := range ordered {
		for _, s := range present {
			k := key{m, s}
			if c, ok := counts[k]; ok {
				out = append(out, MonthStageMetric{Month: m, Stage: s, Count: c, MRR: sums[k]})
			}
		}
	}
	return out
}

// MonthlySummaries returns per-month distinct deal counts and MRR sums
// with month-over-month growth percentages. The first month's growth is
// undefined and left nil, as is any growth with a zero previous value.
func MonthlySummaries(records []model.Record) []MonthSummary {
	deals := make(map[string]map[string]bool)
	sums := make(map[string]float64)
	rows := make(map[string]int)
	for _, r := range records {
		m := r.Month()
		if m == "" {
			continue
		}
		rows[m]++
		sums[m] += r.MRRClean
		if r.DealID != "" {
			if deals[m] == nil {
				deals[m] = make(map[string]bool)
			}
			deals[m][r.DealID] = true
		}
	}

	months := make([]string, 0, len(rows))
	for m := range rows {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthSummary, 0, len(months))
	for i, m := range months {
		s := MonthSummary{Month: m, Deals: len(deals[m]), MRR: sums[m]}
		if i > 0 {
			prev := out[i-1]
			s.DealGrowth = Growth(float64(prev.Deals), float64(s.Deals))
			s.MRRGrowth = Growth(prev.MRR, s.MRR)
		}
		out = append(out, s)
	}
	return out
}

// Growth returns the period-over-period change in percent, or nil when
// the previous value is zero (the rate is undefined, not zero).
func Growth(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	g := (current - previous) / previous * 100
	return &g
}

// OwnerPerformance groups records by owner: distinct deal count, MRR sum
// and MRR mean per record. Owners are ranked descending by total MRR
// with a stable sort, so ties keep first-appearance order. Records with
// no owner are skipped.
func OwnerPerformance(records []model.Record) []OwnerMetric {
	index := make(map[string]int)
	var owners []string
	deals := make(map[string]map[string]bool)
	sums := make(map[string]float64)
	rows := make(map[string]int)

	for _, r := range records {
		o := r.DealOwner
		if o == "" {
			continue
		}
		if _, ok := index[o]; !ok {
			index[o] = len(owners)
			owners = append(owners, o)
		}
		rows[o]++
		sums[o] += r.MRRClean
		if r.DealID != "" {
			if deals[o] == nil {
				deals[o] = make(map[string]bool)
			}
			deals[o][r.DealID] = true
		}
	}

	out := make([]OwnerMetric, 0, len(owners))
	for _, o := range owners {
		m := OwnerMetric{Owner: o, Deals: len(deals[o]), TotalMRR: sums[o]}
		if rows[o] > 0 {
			m.AvgMRR = sums[o] / float64(rows[o])
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalMRR > out[j].TotalMRR })
	return out
}

// TopOwners returns the first n entries of OwnerPerformance.
func TopOwners(records []model.Record, n int) []OwnerMetric {
	all := OwnerPerformance(records)
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// FunnelConversions returns stage-to-stage conversion rates for
// consecutive vocabulary stages present in the set. A zero from-count
// leaves the rate nil rather than dividing by zero.
func FunnelConversions(records []model.Record) []Conversion {
	dist := StageDistribution(records)
	if len(dist) < 2 {
		return nil
	}

	out := make([]Conversion, 0, len(dist)-1)
	for i := 0; i < len(dist)-1; i++ {
		c := Conversion{
			From:      dist[i].Stage,
			To:        dist[i+1].Stage,
			FromCount: dist[i].Count,
			ToCount:   dist[i+1].Count,
		}
		if c.FromCount > 0 {
			rate := float64(c.ToCount) / float64(c.FromCount) * 100
			c.Rate = &rate
		}
		out = append(out, c)
	}
	return out
}

// Metrics returns the headline numbers for a record set.
func Metrics(records []model.Record) KeyMetrics {
	m := KeyMetrics{TotalDeals: len(records)}
	stages := make(map[string]bool)
	for _, r := range records {
		m.PipelineValue += r.MRRClean
		if stage.Known(r.Stage) {
			stages[r.Stage] = true
		}
	}
	m.ActiveStages = len(stages)
	if len(records) > 0 {
		avg := m.PipelineValue / float64(len(records))
		m.AvgDealSize = &avg
	}
	return m
}
