package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
	"github.com/fardannozami/streak-limpo/internal/metrics"
	"github.com/fardannozami/streak-limpo/internal/streak"
)

type LogTriggerUsecase struct {
	profiles     domain.ProfileRepository
	profileCache domain.ProfileCache
	triggers     domain.TriggerRepository
	clock        clock.Clock
	metrics      *metrics.Metrics
}

func NewLogTriggerUsecase(profiles domain.ProfileRepository, profileCache domain.ProfileCache, triggers domain.TriggerRepository, clk clock.Clock, m *metrics.Metrics) *LogTriggerUsecase {
	return &LogTriggerUsecase{profiles: profiles, profileCache: profileCache, triggers: triggers, clock: clk, metrics: m}
}

// Execute appends a trigger event. The day number is frozen at logging time;
// an unavailable profile means day 1, never a failed log. Write errors are
// returned so the user can retry.
func (uc *LogTriggerUsecase) Execute(ctx context.Context, session domain.Session, emotion, triggerContext string, intensity int) (*domain.TriggerEvent, error) {
	if !session.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if intensity < domain.MinIntensity || intensity > domain.MaxIntensity {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidIntensity, intensity)
	}

	now := uc.clock.Now()
	event := &domain.TriggerEvent{
		UserID:    session.UserID,
		Emotion:   emotion,
		Context:   triggerContext,
		Intensity: intensity,
		Timestamp: now,
		DateKey:   clock.DayKey(now, uc.clock.Location()),
		DayNumber: streak.DayNumberFor(uc.anchorProfile(ctx, session.UserID), now),
		TimeSlot:  domain.TimeSlotFor(now.In(uc.clock.Location())),
	}

	if err := uc.triggers.AppendTrigger(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save trigger log: %w", err)
	}
	uc.metrics.TriggerLogged(string(event.TimeSlot))

	return event, nil
}

// anchorProfile prefers the remote profile and falls back to the user's
// cached copy.
func (uc *LogTriggerUsecase) anchorProfile(ctx context.Context, userID string) *domain.UserProfile {
	profile, err := uc.profiles.GetProfile(ctx, userID)
	if err == nil && profile != nil {
		return profile
	}
	if err != nil {
		logrus.Warnf("failed to read profile for trigger log of %s: %v", userID, err)
	}

	if uc.profileCache != nil {
		if cached, ok := uc.profileCache.Read(userID); ok {
			return cached
		}
	}

	logrus.Warnf("profile not found for trigger log of %s, defaulting to day 1", userID)
	return nil
}
