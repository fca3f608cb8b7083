// Package model defines the canonical record schema shared by every
// pipeline component from normalization through aggregation.
package model

import "time"

// Canonical field names produced by normalization. Source headers are
// matched case-insensitively and mapped onto these.
const (
	ColDealID     = "deal_id"
	ColDealOwner  = "deal_owner"
	ColStage      = "stage"
	ColStageDate  = "stage_date"
	ColCreateDate = "create_date"
	ColMRR        = "mrr"
	ColMRRClean   = "mrr_clean"
	ColEstMRR     = "est_mrr"
	ColDealStage  = "deal_stage"
	ColEntryExit  = "entry_exit"
)

// Record is one normalized row of a pipeline export. String fields keep
// their source text; a missing field is the empty string. StageDate and
// CreateDate are nil when the source value was absent or unparseable.
type Record struct {
	DealID     string     `json:"deal_id,omitempty"`
	DealOwner  string     `json:"deal_owner,omitempty"`
	Stage      string     `json:"stage,omitempty"`
	StageDate  *time.Time `json:"stage_date,omitempty"`
	CreateDate *time.Time `json:"create_date,omitempty"`
	MRRRaw     string     `json:"mrr,omitempty"`
	MRRClean   float64    `json:"mrr_clean"`
	EstMRR     string     `json:"est_mrr,omitempty"`
	DealStage  string     `json:"deal_stage,omitempty"`
	EntryExit  string     `json:"entry_exit,omitempty"`

	// Extra holds unrecognized source columns, passed through unchanged.
	Extra map[string]string `json:"extra,omitempty"`
}

// Month returns the year-month bucket of StageDate ("2006-01"), or ""
// when the record has no stage date. Buckets sort lexically in calendar
// order.
func (r Record) Month() string {
	if r.StageDate == nil {
		return ""
	}
	return r.StageDate.Format("2006-01")
}
