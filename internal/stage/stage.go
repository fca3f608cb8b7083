// Package stage holds the fixed pipeline stage vocabulary and its ordering.
package stage

import "github.com/sells-group/pipeline-insights/internal/model"

// Order is the canonical stage sequence. Every order-sensitive view
// (funnel, stacked charts, distribution tables) sorts stages by position
// in this list, regardless of the order they appear in the source data.
var Order = []string{
	"A. Marketing Engaged",
	"B. MQL (Sales Pipeline)",
	"C. Pre-Pipeline (Sales Pipeline)",
	"1. RFP (Sales Pipeline)",
	"2. Early / Opportunity (Sales Pipeline)",
	"3. Middle / Validation (Sales Pipeline)",
	"4. Late / Negotiation (Sales Pipeline)",
	"5. Close Won - No Effort (Sales Pipeline)",
	"5. Closed Lost (Sales Pipeline)",
	"5. Closed Won (Sales Pipeline)",
	"Downgrade (Sales Pipeline)",
	"Re-Subscribe (Sales Pipeline)",
	"Subscription Cancelled (Sales Pipeline)",
	"Upgrade (Sales Pipeline)",
}

var position = func() map[string]int {
	m := make(map[string]int, len(Order))
	for i, s := range Order {
		m[s] = i
	}
	return m
}()

// Known reports whether s is part of the canonical vocabulary.
func Known(s string) bool {
	_, ok := position[s]
	return ok
}

// Index returns the vocabulary position of s, or -1 if s is not a
// canonical stage.
func Index(s string) int {
	if i, ok := position[s]; ok {
		return i
	}
	return -1
}

// OrderedPresent returns the subset of the vocabulary that appears in at
// least one record, in vocabulary order. Stage values outside the
// vocabulary are excluded; they remain visible only in ungrouped views.
func OrderedPresent(records []model.Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Stage != "" && Known(r.Stage) {
			seen[r.Stage] = true
		}
	}

	var present []string
	for _, s := range Order {
		if seen[s] {
			present = append(present, s)
		}
	}
	return present
}
