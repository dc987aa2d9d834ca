package domain

import (
	"context"
	"math"
	"time"
)

type Habit struct {
	ID    string
	Label string
}

// HabitCatalog is the fixed list of daily habits.
type HabitCatalog []Habit

var DefaultHabitCatalog = HabitCatalog{
	{ID: "1", Label: "Treino Físico"},
	{ID: "2", Label: "Ler 10 Páginas"},
	{ID: "3", Label: "4L de Água"},
	{ID: "4", Label: "Conexão Real"},
	{ID: "5", Label: "Banho Gelado"},
	{ID: "6", Label: "Sem Telas > 22h"},
}

func (c HabitCatalog) Contains(id string) bool {
	_, ok := c.Find(id)
	return ok
}

func (c HabitCatalog) Find(id string) (Habit, bool) {
	for _, h := range c {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// DailyHabitState is the set of habits completed on one calendar day.
type DailyHabitState struct {
	DayKey       string
	CompletedIDs []string
}

func (s DailyHabitState) IsCompleted(id string) bool {
	for _, c := range s.CompletedIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Toggle returns a copy with id added or removed.
func (s DailyHabitState) Toggle(id string) DailyHabitState {
	next := DailyHabitState{DayKey: s.DayKey, CompletedIDs: make([]string, 0, len(s.CompletedIDs)+1)}
	found := false
	for _, c := range s.CompletedIDs {
		if c == id {
			found = true
			continue
		}
		next.CompletedIDs = append(next.CompletedIDs, c)
	}
	if !found {
		next.CompletedIDs = append(next.CompletedIDs, id)
	}
	return next
}

// CompletionPercentage rounds completed/total*100 to the nearest integer.
func (s DailyHabitState) CompletionPercentage(total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(len(s.CompletedIDs)) / float64(total) * 100))
}

// DailyHistory is the remote per-day aggregate of a DailyHabitState.
type DailyHistory struct {
	DayKey         string
	CompletedCount int
	TotalHabits    int
	HabitIDs       []string
	Percentage     int
	LastUpdated    time.Time
}

// NewDailyHistory derives the aggregate for state against the catalog.
func NewDailyHistory(state DailyHabitState, catalog HabitCatalog, at time.Time) *DailyHistory {
	ids := make([]string, len(state.CompletedIDs))
	copy(ids, state.CompletedIDs)
	return &DailyHistory{
		DayKey:         state.DayKey,
		CompletedCount: len(ids),
		TotalHabits:    len(catalog),
		HabitIDs:       ids,
		Percentage:     state.CompletionPercentage(len(catalog)),
		LastUpdated:    at,
	}
}

type DailyHistoryRepository interface {
	// UpsertDailyHistory merge-writes the aggregate for history.DayKey.
	UpsertDailyHistory(ctx context.Context, userID string, history *DailyHistory) error
	GetDailyHistory(ctx context.Context, userID, dayKey string) (*DailyHistory, error)
}

// HabitCache is the local per-user, per-day store of completed habit ids.
type HabitCache interface {
	Get(userID, dayKey string) ([]string, error)
	Put(userID, dayKey string, ids []string) error
	Delete(userID, dayKey string) error
}
