// Package streak derives streak durations and recovery day numbers from an
// anchor instant. Everything here is recomputed from the inputs on each call.
package streak

import (
	"fmt"
	"time"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

const day = 24 * time.Hour

// Duration is the component breakdown of an elapsed streak.
type Duration struct {
	Days    int64
	Hours   int
	Minutes int
	Seconds int
}

// Elapsed breaks now-anchor into whole days, hours, minutes and seconds.
// A now before anchor yields the zero Duration.
func Elapsed(anchor, now time.Time) Duration {
	if now.Before(anchor) {
		return Duration{}
	}
	total := int64(now.Sub(anchor) / time.Second)
	return Duration{
		Days:    total / 86400,
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

func (d Duration) TotalSeconds() int64 {
	return d.Days*86400 + int64(d.Hours)*3600 + int64(d.Minutes)*60 + int64(d.Seconds)
}

// String renders the duration as "DDd HH:MM:SS".
func (d Duration) String() string {
	return fmt.Sprintf("%02dd %02d:%02d:%02d", d.Days, d.Hours, d.Minutes, d.Seconds)
}

// DayNumber is the 1-based count of 24h periods since anchor. Never below 1.
func DayNumber(anchor, at time.Time) int {
	diff := at.Sub(anchor)
	if diff < 0 {
		return 1
	}
	return int(diff/day) + 1
}

// DayNumberFor falls back to day 1 when the profile or its anchor is missing.
func DayNumberFor(profile *domain.UserProfile, at time.Time) int {
	if !profile.HasAnchor() {
		return 1
	}
	return DayNumber(profile.StreakAnchor, at)
}
