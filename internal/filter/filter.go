// Package filter subsets a record set by caller-supplied predicates.
package filter

import (
	"time"

	"github.com/sells-group/pipeline-insights/internal/model"
)

// Config holds the optional predicates. Zero-valued predicates impose no
// constraint. Date bounds and the MRR range are inclusive.
type Config struct {
	DateFrom time.Time `json:"date_from,omitempty"`
	DateTo   time.Time `json:"date_to,omitempty"`
	Stages   []string  `json:"stages,omitempty"`
	Owners   []string  `json:"owners,omitempty"`
	MinMRR   *float64  `json:"min_mrr,omitempty"`
	MaxMRR   *float64  `json:"max_mrr,omitempty"`
}

// Empty reports whether the configuration constrains nothing.
func (c Config) Empty() bool {
	return c.DateFrom.IsZero() && c.DateTo.IsZero() &&
		len(c.Stages) == 0 && len(c.Owners) == 0 &&
		c.MinMRR == nil && c.MaxMRR == nil
}

// Apply returns the records satisfying every supplied predicate, in input
// order. The input is never mutated; a record lacking the field a
// predicate tests (for example no stage date under a date filter) fails
// that predicate rather than passing vacuously.
func Apply(records []model.Record, c Config) []model.Record {
	if c.Empty() {
		return records
	}

	stages := toSet(c.Stages)
	owners := toSet(c.Owners)

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if !matchDate(r, c.DateFrom, c.DateTo) {
			continue
		}
		if stages != nil && !stages[r.Stage] {
			continue
		}
		if owners != nil && !owners[r.DealOwner] {
			continue
		}
		if c.MinMRR != nil && r.MRRClean < *c.MinMRR {
			continue
		}
		if c.MaxMRR != nil && r.MRRClean > *c.MaxMRR {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchDate(r model.Record, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if r.StageDate == nil {
		return false
	}
	if !from.IsZero() && r.StageDate.Before(from) {
		return false
	}
	if !to.IsZero() && r.StageDate.After(to) {
		return false
	}
	return true
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
