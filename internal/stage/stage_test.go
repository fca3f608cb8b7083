package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/pipeline-insights/internal/model"
)

func recs(stages ...string) []model.Record {
	out := make([]model.Record, len(stages))
	for i, s := range stages {
		out[i] = model.Record{Stage: s}
	}
	return out
}

func TestOrderedPresent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []model.Record
		want    []string
	}{
		{
			name:    "empty set",
			records: nil,
			want:    nil,
		},
		{
			name: "vocabulary order not first-seen order",
			records: recs(
				"5. Closed Won (Sales Pipeline)",
				"A. Marketing Engaged",
				"1. RFP (Sales Pipeline)",
				"A. Marketing Engaged",
			),
			want: []string{
				"A. Marketing Engaged",
				"1. RFP (Sales Pipeline)",
				"5. Closed Won (Sales Pipeline)",
			},
		},
		{
			name:    "unknown stages excluded",
			records: recs("Imported - Legacy", "B. MQL (Sales Pipeline)", ""),
			want:    []string{"B. MQL (Sales Pipeline)"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, OrderedPresent(tt.records))
		})
	}
}

func TestOrderedPresentIsVocabularySubsequence(t *testing.T) {
	t.Parallel()

	got := OrderedPresent(recs(Order...))
	assert.Equal(t, Order, got)

	// A subset keeps relative vocabulary order.
	subset := recs(Order[3], Order[0], Order[9])
	assert.Equal(t, []string{Order[0], Order[3], Order[9]}, OrderedPresent(subset))
}

func TestKnownAndIndex(t *testing.T) {
	t.Parallel()

	assert.True(t, Known("A. Marketing Engaged"))
	assert.False(t, Known("Z. Not A Stage"))
	assert.Equal(t, 0, Index("A. Marketing Engaged"))
	assert.Equal(t, len(Order)-1, Index("Upgrade (Sales Pipeline)"))
	assert.Equal(t, -1, Index("Z. Not A Stage"))
}
