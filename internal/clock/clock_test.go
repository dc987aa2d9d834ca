package clock_test

import (
	"testing"
	"time"

	"github.com/fardannozami/streak-limpo/internal/clock"
)

func TestDayKey_UsesLocalCalendarDate(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	// 01:30 UTC on Jan 2 is still Jan 1 in UTC-3
	instant := time.Date(2024, 1, 2, 1, 30, 0, 0, time.UTC)

	if got := clock.DayKey(instant, time.UTC); got != "2024-01-02" {
		t.Errorf("UTC day key: expected 2024-01-02, got %s", got)
	}
	if got := clock.DayKey(instant, saoPaulo); got != "2024-01-01" {
		t.Errorf("local day key: expected 2024-01-01, got %s", got)
	}
}

func TestFixed_AdvanceChangesToday(t *testing.T) {
	c := clock.NewFixed(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), time.UTC)

	if got := clock.Today(c); got != "2024-03-10" {
		t.Fatalf("expected 2024-03-10, got %s", got)
	}

	c.Advance(2 * time.Minute)
	if got := clock.Today(c); got != "2024-03-11" {
		t.Errorf("after rollover expected 2024-03-11, got %s", got)
	}
}

func TestLoadLocation_LocalAliases(t *testing.T) {
	for _, name := range []string{"", "Local"} {
		loc, err := clock.LoadLocation(name)
		if err != nil {
			t.Fatalf("LoadLocation(%q) error: %v", name, err)
		}
		if loc != time.Local {
			t.Errorf("LoadLocation(%q) should be time.Local, got %v", name, loc)
		}
	}

	if _, err := clock.NewSystem("Not/AZone"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestParseDay_RoundTrip(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	day, err := clock.ParseDay("2024-02-29", loc)
	if err != nil {
		t.Fatalf("ParseDay error: %v", err)
	}
	if got := clock.DayKey(day, loc); got != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", got)
	}
}
