package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
	"github.com/fardannozami/streak-limpo/internal/metrics"
)

const defaultMirrorTimeout = 10 * time.Second

type ToggleHabitUsecase struct {
	cache         domain.HabitCache
	history       domain.DailyHistoryRepository
	clock         clock.Clock
	catalog       domain.HabitCatalog
	metrics       *metrics.Metrics
	mirrorTimeout time.Duration

	inflight sync.WaitGroup
}

func NewToggleHabitUsecase(cache domain.HabitCache, history domain.DailyHistoryRepository, clk clock.Clock, m *metrics.Metrics) *ToggleHabitUsecase {
	return &ToggleHabitUsecase{
		cache:         cache,
		history:       history,
		clock:         clk,
		catalog:       domain.DefaultHabitCatalog,
		metrics:       m,
		mirrorTimeout: defaultMirrorTimeout,
	}
}

func (uc *ToggleHabitUsecase) SetMirrorTimeout(d time.Duration) {
	if d > 0 {
		uc.mirrorTimeout = d
	}
}

// Execute flips habitID in the user's set for today. The local write
// completes before returning; the remote aggregate is mirrored in the
// background and its failure never reaches the caller.
func (uc *ToggleHabitUsecase) Execute(ctx context.Context, session domain.Session, habitID string) (domain.DailyHabitState, error) {
	if !uc.catalog.Contains(habitID) {
		return domain.DailyHabitState{}, fmt.Errorf("%w: %q", domain.ErrUnknownHabit, habitID)
	}

	now := uc.clock.Now()
	dayKey := clock.DayKey(now, uc.clock.Location())

	ids, err := uc.cache.Get(session.CacheID(), dayKey)
	if err != nil {
		return domain.DailyHabitState{}, fmt.Errorf("failed to read habits for %s: %w", dayKey, err)
	}

	state := domain.DailyHabitState{DayKey: dayKey, CompletedIDs: ids}.Toggle(habitID)
	if err := uc.cache.Put(session.CacheID(), dayKey, state.CompletedIDs); err != nil {
		return domain.DailyHabitState{}, fmt.Errorf("failed to save habits for %s: %w", dayKey, err)
	}
	uc.metrics.HabitToggled()

	uc.mirror(ctx, session, state, now)
	return state, nil
}

func (uc *ToggleHabitUsecase) mirror(ctx context.Context, session domain.Session, state domain.DailyHabitState, now time.Time) {
	if !session.Authenticated() {
		logrus.Debugf("skipping habit mirror for %s: no user", state.DayKey)
		return
	}

	history := domain.NewDailyHistory(state, uc.catalog, now)
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.mirrorTimeout)
		defer cancel()

		if err := uc.history.UpsertDailyHistory(ctx, session.UserID, history); err != nil {
			uc.metrics.MirrorFailed()
			logrus.WithFields(logrus.Fields{
				"user_id": session.UserID,
				"day":     history.DayKey,
			}).Warnf("failed to sync habit progress: %v", err)
		}
	}()
}

// Wait blocks until every in-flight mirror write has finished.
func (uc *ToggleHabitUsecase) Wait() {
	uc.inflight.Wait()
}
