package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-insights/internal/model"
)

func TestCleanMRR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain number", input: "1200", want: 1200},
		{name: "currency and thousands", input: "$1,200.50", want: 1200.50},
		{name: "empty", input: "", want: 0},
		{name: "whitespace only", input: "   ", want: 0},
		{name: "concatenated values keep first", input: "$500$300", want: 500},
		{name: "concatenated without leading symbol", input: "500$300", want: 500},
		{name: "garbage", input: "call me", want: 0},
		{name: "negative clamps to zero", input: "-250", want: 0},
		{name: "decimal only", input: ".75", want: 0.75},
		{name: "symbol only", input: "$", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, CleanMRR(tt.input), 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string // "" means nil
	}{
		{name: "iso", input: "2025-03-14", want: "2025-03-14"},
		{name: "us slash", input: "3/14/2025", want: "2025-03-14"},
		{name: "padded", input: "  2025-03-14  ", want: "2025-03-14"},
		{name: "blank", input: "", want: ""},
		{name: "nonsense", input: "soonish", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseDate(tt.input)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestRunHeaderMapping(t *testing.T) {
	t.Parallel()

	header := []string{"  Deal ID ", "DEAL OWNER", "Stage", "Date for the Stage", "MRR", "Region"}
	rows := [][]string{
		{"D-1", "Ann Lee", "B. MQL (Sales Pipeline)", "2025-02-01", "$1,000", "EMEA"},
	}

	res := Run(header, rows)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "D-1", r.DealID)
	assert.Equal(t, "Ann Lee", r.DealOwner)
	assert.Equal(t, "B. MQL (Sales Pipeline)", r.Stage)
	require.NotNil(t, r.StageDate)
	assert.Equal(t, "2025-02-01", r.StageDate.Format("2006-01-02"))
	assert.Equal(t, 1000.0, r.MRRClean)
	assert.Equal(t, map[string]string{"region": "EMEA"}, r.Extra)

	// create date was absent from the header.
	assert.Contains(t, res.Missing, model.ColCreateDate)
}

func TestRunPrunesEmptyRows(t *testing.T) {
	t.Parallel()

	header := []string{"deal id", "deal owner", "mrr"}
	rows := [][]string{
		{"", "  ", ""},
		{"D-2", "", ""},
		{"", "", ""},
	}

	res := Run(header, rows)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "D-2", res.Records[0].DealID)
	assert.Equal(t, 0.0, res.Records[0].MRRClean)
	assert.Empty(t, res.Records[0].DealOwner)
}

func TestRunMRRAlwaysPresent(t *testing.T) {
	t.Parallel()

	header := []string{"deal id", "mrr"}
	rows := [][]string{
		{"D-1", "$100"},
		{"D-2", "broken"},
		{"D-3", ""},
	}

	res := Run(header, rows)
	require.Len(t, res.Records, 3)
	for _, r := range res.Records {
		assert.GreaterOrEqual(t, r.MRRClean, 0.0)
	}
	assert.Equal(t, 100.0, res.Records[0].MRRClean)
	assert.Equal(t, 0.0, res.Records[1].MRRClean)
	assert.Equal(t, 0.0, res.Records[2].MRRClean)
}

func TestRunCreateDateFallback(t *testing.T) {
	t.Parallel()

	header := []string{"deal id", "date for the stage", "create date"}

	t.Run("whole column unparseable falls back", func(t *testing.T) {
		t.Parallel()
		rows := [][]string{
			{"D-1", "pending", "2025-01-05"},
			{"D-2", "", "2025-01-06"},
		}
		res := Run(header, rows)
		require.Len(t, res.Records, 2)
		require.NotNil(t, res.Records[0].StageDate)
		assert.Equal(t, "2025-01-05", res.Records[0].StageDate.Format("2006-01-02"))
		require.NotNil(t, res.Records[1].StageDate)
		assert.Equal(t, "2025-01-06", res.Records[1].StageDate.Format("2006-01-02"))
	})

	t.Run("partial column keeps per-record gaps", func(t *testing.T) {
		t.Parallel()
		rows := [][]string{
			{"D-1", "2025-02-01", "2025-01-05"},
			{"D-2", "pending", "2025-01-06"},
		}
		res := Run(header, rows)
		require.Len(t, res.Records, 2)
		require.NotNil(t, res.Records[0].StageDate)
		assert.Nil(t, res.Records[1].StageDate, "unparseable stage date stays absent when others parsed")
	})
}

func TestRunCanonicalHeaderReloads(t *testing.T) {
	t.Parallel()

	// Output of the exporter uses canonical names; they must map onto
	// themselves on re-ingest.
	header := []string{"deal_id", "deal_owner", "stage", "stage_date", "create_date", "mrr", "mrr_clean"}
	rows := [][]string{
		{"D-9", "Raj Patel", "1. RFP (Sales Pipeline)", "2025-04-01", "2025-03-20", "250.5", "250.5"},
	}

	res := Run(header, rows)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Missing)

	r := res.Records[0]
	assert.Equal(t, "D-9", r.DealID)
	assert.Equal(t, "Raj Patel", r.DealOwner)
	assert.Equal(t, 250.5, r.MRRClean)
	require.NotNil(t, r.CreateDate)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), *r.CreateDate)
}
