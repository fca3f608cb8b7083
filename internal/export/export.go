// Package export writes pipeline data as delimited text. The record
// format round-trips: a file written by WriteRecords re-loads through
// the normal ingest path with every canonical value intact (ISO-8601
// dates, decimal MRR).
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pipeline-insights/internal/aggregate"
	"github.com/sells-group/pipeline-insights/internal/model"
)

const dateLayout = "2006-01-02"

// recordRow is the CSV projection of a Record. Column names match the
// canonical schema so the output is re-loadable by the normalizer.
type recordRow struct {
	DealID     string  `csv:"deal_id"`
	DealOwner  string  `csv:"deal_owner"`
	Stage      string  `csv:"stage"`
	StageDate  string  `csv:"stage_date"`
	CreateDate string  `csv:"create_date"`
	MRRRaw     string  `csv:"mrr"`
	MRRClean   float64 `csv:"mrr_clean"`
	EstMRR     string  `csv:"est_mrr"`
	DealStage  string  `csv:"deal_stage"`
	EntryExit  string  `csv:"entry_exit"`
}

// ownerRow is the CSV projection of one owner-performance entry.
type ownerRow struct {
	Owner    string  `csv:"deal_owner"`
	Deals    int     `csv:"total_deals"`
	TotalMRR float64 `csv:"total_mrr"`
	AvgMRR   float64 `csv:"avg_mrr"`
}

// WriteRecords writes the record set as canonical CSV.
func WriteRecords(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	for _, r := range records {
		row := recordRow{
			DealID:     r.DealID,
			DealOwner:  r.DealOwner,
			Stage:      r.Stage,
			StageDate:  formatDate(r.StageDate),
			CreateDate: formatDate(r.CreateDate),
			MRRRaw:     r.MRRRaw,
			MRRClean:   r.MRRClean,
			EstMRR:     r.EstMRR,
			DealStage:  r.DealStage,
			EntryExit:  r.EntryExit,
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode record")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush records")
}

// WriteOwners writes the owner-performance table as CSV, in the order
// given (the table arrives already ranked; export never re-aggregates).
func WriteOwners(w io.Writer, owners []aggregate.OwnerMetric) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	for _, o := range owners {
		row := ownerRow{Owner: o.Owner, Deals: o.Deals, TotalMRR: o.TotalMRR, AvgMRR: o.AvgMRR}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode owner")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush owners")
}

// ReadRecords decodes a canonical CSV written by WriteRecords.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "export: read header")
	}

	var records []model.Record
	for {
		var row recordRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "export: decode record")
		}

		records = append(records, model.Record{
			DealID:     row.DealID,
			DealOwner:  row.DealOwner,
			Stage:      row.Stage,
			StageDate:  parseDate(row.StageDate),
			CreateDate: parseDate(row.CreateDate),
			MRRRaw:     row.MRRRaw,
			MRRClean:   row.MRRClean,
			EstMRR:     row.EstMRR,
			DealStage:  row.DealStage,
			EntryExit:  row.EntryExit,
		})
	}
	return records, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
