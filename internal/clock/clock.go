package clock

import (
	"fmt"
	"sync"
	"time"
)

// DayFormat is the canonical day key layout (YYYY-MM-DD).
const DayFormat = "2006-01-02"

// Clock supplies the current instant and the viewer's time zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// System reads the wall clock.
type System struct {
	Loc *time.Location
}

// NewSystem returns a System clock for an IANA zone name.
// An empty name or "Local" selects the host zone.
func NewSystem(timezone string) (*System, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &System{Loc: loc}, nil
}

func (s *System) Now() time.Time {
	return time.Now().In(s.Location())
}

func (s *System) Location() *time.Location {
	if s.Loc == nil {
		return time.Local
	}
	return s.Loc
}

// LoadLocation resolves a zone name, treating "" and "Local" as time.Local.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// DayKey formats t as the calendar day it falls on in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayFormat)
}

// Today is the day key for c.Now().
func Today(c Clock) string {
	return DayKey(c.Now(), c.Location())
}

// ParseDay parses a day key as midnight in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayFormat, day, loc)
}

// Fixed is a settable clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
}

func NewFixed(now time.Time, loc *time.Location) *Fixed {
	if loc == nil {
		loc = time.UTC
	}
	return &Fixed{now: now, loc: loc}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.In(f.loc)
}

func (f *Fixed) Location() *time.Location {
	return f.loc
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
