// Package normalize maps a raw tabular export onto the canonical record
// schema: header renaming, date parsing, monetary coercion, and pruning
// of empty rows. Per-value coercion never fails; bad values resolve to
// defined defaults (no date, 0.0) so aggregation always has a full table.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/pipeline-insights/internal/model"
)

// headerMap maps trimmed, lower-cased source headers to canonical field
// names. Canonical names map to themselves so normalized CSV output
// re-loads through the same path.
var headerMap = map[string]string{
	"deal id":            model.ColDealID,
	"deal owner":         model.ColDealOwner,
	"stage":              model.ColStage,
	"date for the stage": model.ColStageDate,
	"mrr":                model.ColMRR,
	"est mrr ($)":        model.ColEstMRR,
	"create date":        model.ColCreateDate,
	"deal stage":         model.ColDealStage,
	"entry/exit":         model.ColEntryExit,

	model.ColDealID:     model.ColDealID,
	model.ColDealOwner:  model.ColDealOwner,
	model.ColStageDate:  model.ColStageDate,
	model.ColEstMRR:     model.ColEstMRR,
	model.ColCreateDate: model.ColCreateDate,
	model.ColDealStage:  model.ColDealStage,
	model.ColEntryExit:  model.ColEntryExit,
	model.ColMRRClean:   model.ColMRRClean,
}

// expected are the canonical columns the dashboard relies on. Absence is
// soft: normalization proceeds and the missing names are reported.
var expected = []string{
	model.ColDealID,
	model.ColDealOwner,
	model.ColStage,
	model.ColStageDate,
	model.ColMRR,
	model.ColCreateDate,
}

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Result is the outcome of one normalization pass.
type Result struct {
	Records []model.Record

	// Missing lists expected canonical columns not found in the source
	// header. Informational; the corresponding fields stay unset.
	Missing []string
}

// Run normalizes a raw table (header + rows) into canonical records.
// It never fails: coercion problems resolve per-value and rows whose
// every cell is blank are dropped.
func Run(header []string, rows [][]string) *Result {
	cols := canonicalHeader(header)

	colIndex := make(map[string]int, len(cols))
	for i, name := range cols {
		if _, dup := colIndex[name]; !dup {
			colIndex[name] = i
		}
	}

	var missing []string
	for _, name := range expected {
		if _, ok := colIndex[name]; !ok {
			missing = append(missing, name)
		}
	}

	records := make([]model.Record, 0, len(rows))
	anyStageDate := false
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}

		rec := model.Record{
			DealID:    cell(row, colIndex, model.ColDealID),
			DealOwner: cell(row, colIndex, model.ColDealOwner),
			Stage:     cell(row, colIndex, model.ColStage),
			MRRRaw:    cell(row, colIndex, model.ColMRR),
			EstMRR:    cell(row, colIndex, model.ColEstMRR),
			DealStage: cell(row, colIndex, model.ColDealStage),
			EntryExit: cell(row, colIndex, model.ColEntryExit),
		}
		rec.MRRClean = CleanMRR(rec.MRRRaw)
		rec.StageDate = ParseDate(cell(row, colIndex, model.ColStageDate))
		rec.CreateDate = ParseDate(cell(row, colIndex, model.ColCreateDate))
		if rec.StageDate != nil {
			anyStageDate = true
		}
		rec.Extra = extraCells(cols, row)

		records = append(records, rec)
	}

	// The primary date column fell over entirely: use creation dates as
	// the event date for the whole set. The fallback is all-or-nothing;
	// individual records with no stage date keep "no date".
	if !anyStageDate {
		for i := range records {
			records[i].StageDate = records[i].CreateDate
		}
	}

	return &Result{Records: records, Missing: missing}
}

// canonicalHeader trims and lower-cases source headers and renames
// recognized ones. Unrecognized headers pass through trimmed.
func canonicalHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := headerMap[key]; ok {
			cols[i] = canonical
		} else {
			cols[i] = key
		}
	}
	return cols
}

// ParseDate parses a date cell permissively. Unparseable or blank text
// yields nil, never a fabricated date.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// CleanMRR coerces free-text monetary values to a number. It is total:
// blank or unparseable input yields 0.0. Currency symbols and thousands
// separators are stripped; when several values are concatenated with a
// currency symbol as separator, only the first segment counts. The
// result is never negative.
func CleanMRR(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.0
	}

	s = strings.ReplaceAll(s, ",", "")
	first := ""
	for _, part := range strings.Split(s, "$") {
		if strings.TrimSpace(part) != "" {
			first = strings.TrimSpace(part)
			break
		}
	}
	if first == "" {
		return 0.0
	}

	v, err := strconv.ParseFloat(first, 64)
	if err != nil || v < 0 {
		return 0.0
	}
	return v
}

func cell(row []string, colIndex map[string]int, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func extraCells(cols, row []string) map[string]string {
	var extra map[string]string
	for i, name := range cols {
		if isCanonical(name) || i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[name] = v
	}
	return extra
}

func isCanonical(name string) bool {
	switch name {
	case model.ColDealID, model.ColDealOwner, model.ColStage, model.ColStageDate,
		model.ColCreateDate, model.ColMRR, model.ColMRRClean, model.ColEstMRR,
		model.ColDealStage, model.ColEntryExit:
		return true
	}
	return false
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
