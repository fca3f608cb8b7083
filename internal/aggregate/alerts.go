package aggregate

import (
	"fmt"
	"time"

	"github.com/sells-group/pipeline-insights/internal/model"
)

// AlertKind identifies one of the monitoring checks.
type AlertKind string

const (
	AlertLowPipeline        AlertKind = "low_pipeline"
	AlertOwnerConcentration AlertKind = "owner_concentration"
	AlertLowActivity        AlertKind = "low_activity"
)

// Alert is one fired monitoring check. Value carries the measured
// quantity the check tripped on (dollar sum, percentage, or count).
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
	Value   float64   `json:"value"`
}

// Thresholds parameterizes the monitoring checks.
type Thresholds struct {
	MinPipelineValue   float64 // total MRR below this fires low_pipeline
	MaxOwnerShare      float64 // top owner percentage above this fires owner_concentration
	MinRecentDeals     int     // fewer recent records than this fires low_activity
	ActivityWindowDays int     // lookback window for low_activity
}

// DefaultThresholds returns the standard alert configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinPipelineValue:   50000,
		MaxOwnerShare:      50,
		MinRecentDeals:     10,
		ActivityWindowDays: 30,
	}
}

// EvaluateAlerts runs the three monitoring checks against the record set
// at the supplied clock. The checks are independent: any subset may
// fire. An empty set fires nothing.
func EvaluateAlerts(records []model.Record, now time.Time, t Thresholds) []Alert {
	if len(records) == 0 {
		return nil
	}

	var alerts []Alert

	total := 0.0
	for _, r := range records {
		total += r.MRRClean
	}
	if total < t.MinPipelineValue {
		alerts = append(alerts, Alert{
			Kind:    AlertLowPipeline,
			Message: fmt.Sprintf("low pipeline value: $%.0f (threshold $%.0f)", total, t.MinPipelineValue),
			Value:   total,
		})
	}

	ownerCounts := make(map[string]int)
	top := 0
	for _, r := range records {
		if r.DealOwner == "" {
			continue
		}
		ownerCounts[r.DealOwner]++
		if ownerCounts[r.DealOwner] > top {
			top = ownerCounts[r.DealOwner]
		}
	}
	if top > 0 {
		share := float64(top) / float64(len(records)) * 100
		if share > t.MaxOwnerShare {
			alerts = append(alerts, Alert{
				Kind:    AlertOwnerConcentration,
				Message: fmt.Sprintf("high deal concentration: %.1f%% with a single owner", share),
				Value:   share,
			})
		}
	}

	cutoff := now.AddDate(0, 0, -t.ActivityWindowDays)
	recent := 0
	for _, r := range records {
		if r.StageDate != nil && !r.StageDate.Before(cutoff) {
			recent++
		}
	}
	if recent < t.MinRecentDeals {
		alerts = append(alerts, Alert{
			Kind:    AlertLowActivity,
			Message: fmt.Sprintf("low recent activity: %d deals in the last %d days", recent, t.ActivityWindowDays),
			Value:   float64(recent),
		})
	}

	return alerts
}
