package metrics_test

import (
	"testing"

	"github.com/fardannozami/streak-limpo/internal/metrics"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.HabitToggled()
	m.MirrorFailed()
	m.TriggerLogged("Noite")
	m.RelapseRecorded()
	m.SetStreakSeconds(10)
}

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()
	m.HabitToggled()
	m.HabitToggled()
	m.RelapseRecorded()
	m.TriggerLogged("Manhã")
	m.SetStreakSeconds(90)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather error: %v", err)
	}

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}

	expected := map[string]float64{
		"streak_habit_toggles_total":   2,
		"streak_relapses_total":        1,
		"streak_triggers_logged_total": 1,
		"streak_elapsed_seconds":       90,
	}
	for name, want := range expected {
		if got := values[name]; got != want {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
}
