package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
)

// GetHabitsUsecase reads day-keyed habit state. "Today" is recomputed from
// the clock on every call, so a date change is a rollover.
type GetHabitsUsecase struct {
	cache   domain.HabitCache
	history domain.DailyHistoryRepository
	clock   clock.Clock
}

func NewGetHabitsUsecase(cache domain.HabitCache, history domain.DailyHistoryRepository, clk clock.Clock) *GetHabitsUsecase {
	return &GetHabitsUsecase{cache: cache, history: history, clock: clk}
}

// Today reads the local cache only; local state wins for the current day.
func (uc *GetHabitsUsecase) Today(ctx context.Context, session domain.Session) (domain.DailyHabitState, error) {
	return uc.local(session, clock.Today(uc.clock))
}

// ForDay reads a past day from the local cache and falls back to the stored
// daily history when the cache has nothing for it.
func (uc *GetHabitsUsecase) ForDay(ctx context.Context, session domain.Session, dayKey string) (domain.DailyHabitState, error) {
	state, err := uc.local(session, dayKey)
	if err != nil || len(state.CompletedIDs) > 0 || dayKey == clock.Today(uc.clock) {
		return state, err
	}
	if !session.Authenticated() || uc.history == nil {
		return state, nil
	}

	h, err := uc.history.GetDailyHistory(ctx, session.UserID, dayKey)
	if err != nil {
		logrus.Warnf("failed to read daily history of %s for %s: %v", session.UserID, dayKey, err)
		return state, nil
	}
	if h == nil {
		return state, nil
	}
	return domain.DailyHabitState{DayKey: dayKey, CompletedIDs: h.HabitIDs}, nil
}

func (uc *GetHabitsUsecase) local(session domain.Session, dayKey string) (domain.DailyHabitState, error) {
	ids, err := uc.cache.Get(session.CacheID(), dayKey)
	if err != nil {
		return domain.DailyHabitState{}, fmt.Errorf("failed to read habits for %s: %w", dayKey, err)
	}
	return domain.DailyHabitState{DayKey: dayKey, CompletedIDs: ids}, nil
}
