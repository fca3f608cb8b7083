package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-insights/internal/model"
)

var alertNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func kinds(alerts []Alert) []AlertKind {
	out := make([]AlertKind, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Kind)
	}
	return out
}

func TestLowPipelineAlert(t *testing.T) {
	t.Parallel()

	recent := alertNow.AddDate(0, 0, -5)
	build := func(total float64) []model.Record {
		var records []model.Record
		// 20 recent records across two owners: no concentration, no
		// activity alert, so only the pipeline check can fire.
		for i := 0; i < 20; i++ {
			owner := "Ann"
			if i%2 == 0 {
				owner = "Raj"
			}
			records = append(records, model.Record{
				DealOwner: owner,
				StageDate: &recent,
				MRRClean:  total / 20,
			})
		}
		return records
	}

	t.Run("40k fires", func(t *testing.T) {
		t.Parallel()
		alerts := EvaluateAlerts(build(40000), alertNow, DefaultThresholds())
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertLowPipeline, alerts[0].Kind)
		assert.InDelta(t, 40000, alerts[0].Value, 1e-6)
	})

	t.Run("60k does not fire", func(t *testing.T) {
		t.Parallel()
		alerts := EvaluateAlerts(build(60000), alertNow, DefaultThresholds())
		assert.Empty(t, alerts)
	})
}

func TestOwnerConcentrationAlert(t *testing.T) {
	t.Parallel()

	recent := alertNow.AddDate(0, 0, -1)
	var records []model.Record
	for i := 0; i < 9; i++ {
		records = append(records, model.Record{DealOwner: "Ann", StageDate: &recent, MRRClean: 10000})
	}
	records = append(records, model.Record{DealOwner: "Raj", StageDate: &recent, MRRClean: 10000})

	alerts := EvaluateAlerts(records, alertNow, DefaultThresholds())
	require.Contains(t, kinds(alerts), AlertOwnerConcentration)
	for _, a := range alerts {
		if a.Kind == AlertOwnerConcentration {
			assert.InDelta(t, 90.0, a.Value, 1e-9)
		}
	}
}

func TestLowActivityAlert(t *testing.T) {
	t.Parallel()

	old := alertNow.AddDate(0, 0, -90)
	recent := alertNow.AddDate(0, 0, -10)

	var records []model.Record
	for i := 0; i < 12; i++ {
		records = append(records, model.Record{DealOwner: "Ann", StageDate: &old, MRRClean: 10000})
	}
	for i := 0; i < 11; i++ {
		records = append(records, model.Record{DealOwner: "Raj", StageDate: &recent, MRRClean: 10000})
	}

	// 11 recent records: above the threshold of 10.
	alerts := EvaluateAlerts(records, alertNow, DefaultThresholds())
	assert.NotContains(t, kinds(alerts), AlertLowActivity)

	// Shift the clock forward so only the old records remain out of window.
	later := alertNow.AddDate(0, 2, 0)
	alerts = EvaluateAlerts(records, later, DefaultThresholds())
	require.Contains(t, kinds(alerts), AlertLowActivity)
	for _, a := range alerts {
		if a.Kind == AlertLowActivity {
			assert.Equal(t, 0.0, a.Value)
		}
	}
}

func TestAlertsIndependent(t *testing.T) {
	t.Parallel()

	// One tiny record set trips all three checks at once.
	old := alertNow.AddDate(0, 0, -120)
	records := []model.Record{
		{DealOwner: "Ann", StageDate: &old, MRRClean: 100},
		{DealOwner: "Ann", StageDate: &old, MRRClean: 100},
		{DealOwner: "Raj", StageDate: &old, MRRClean: 100},
	}

	alerts := EvaluateAlerts(records, alertNow, DefaultThresholds())
	assert.ElementsMatch(t,
		[]AlertKind{AlertLowPipeline, AlertOwnerConcentration, AlertLowActivity},
		kinds(alerts),
	)
}

func TestAlertsEmptySet(t *testing.T) {
	t.Parallel()
	assert.Nil(t, EvaluateAlerts(nil, alertNow, DefaultThresholds()))
}
