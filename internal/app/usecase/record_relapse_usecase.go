package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
	"github.com/fardannozami/streak-limpo/internal/metrics"
)

type RecordRelapseUsecase struct {
	profiles     domain.ProfileRepository
	habitCache   domain.HabitCache
	profileCache domain.ProfileCache
	clock        clock.Clock
	metrics      *metrics.Metrics
	quotes       []string
	intn         func(n int) int
}

func NewRecordRelapseUsecase(profiles domain.ProfileRepository, habitCache domain.HabitCache, profileCache domain.ProfileCache, clk clock.Clock, m *metrics.Metrics) *RecordRelapseUsecase {
	return &RecordRelapseUsecase{
		profiles:     profiles,
		habitCache:   habitCache,
		profileCache: profileCache,
		clock:        clk,
		metrics:      m,
		quotes:       domain.MotivationalQuotes,
		intn:         rand.Intn,
	}
}

// SetRandom replaces the quote picker. intn must return a value in [0, n).
func (uc *RecordRelapseUsecase) SetRandom(intn func(n int) int) {
	uc.intn = intn
}

// Execute resets the streak. The remote update is the source of truth: if it
// fails nothing local is touched and the error is returned.
func (uc *RecordRelapseUsecase) Execute(ctx context.Context, session domain.Session) (*domain.RelapseResult, error) {
	if !session.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	now := uc.clock.Now()
	if err := uc.profiles.ApplyRelapse(ctx, session.UserID, now); err != nil {
		return nil, fmt.Errorf("failed to record relapse: %w", err)
	}
	uc.metrics.RelapseRecorded()

	todayKey := clock.DayKey(now, uc.clock.Location())
	if err := uc.habitCache.Delete(session.CacheID(), todayKey); err != nil {
		logrus.Errorf("failed to clear habits for %s after relapse: %v", todayKey, err)
	}

	uc.refreshCachedProfile(ctx, session.UserID, now)

	return &domain.RelapseResult{
		Quote:     uc.quotes[uc.intn(len(uc.quotes))],
		NewAnchor: now,
	}, nil
}

func (uc *RecordRelapseUsecase) refreshCachedProfile(ctx context.Context, userID string, now time.Time) {
	cached, ok := uc.profileCache.Read(userID)
	if !ok {
		remote, err := uc.profiles.GetProfile(ctx, userID)
		if err != nil || remote == nil {
			logrus.Warnf("no profile to cache after relapse of %s: %v", userID, err)
			return
		}
		cached = remote
	} else {
		cached.RelapseCount++
	}

	cached.StreakAnchor = now
	relapsedAt := now
	cached.LastRelapseAt = &relapsedAt
	cached.LastUpdated = now

	if err := uc.profileCache.Write(cached); err != nil {
		logrus.Errorf("failed to update cached profile after relapse: %v", err)
	}
}
