package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
)

type CompleteOnboardingUsecase struct {
	profiles domain.ProfileRepository
	cache    domain.ProfileCache
	clock    clock.Clock
}

func NewCompleteOnboardingUsecase(profiles domain.ProfileRepository, cache domain.ProfileCache, clk clock.Clock) *CompleteOnboardingUsecase {
	return &CompleteOnboardingUsecase{profiles: profiles, cache: cache, clock: clk}
}

// Execute creates the profile from the assessment answers and starts the
// streak now. An existing profile is replaced.
func (uc *CompleteOnboardingUsecase) Execute(ctx context.Context, session domain.Session, email string, answers []domain.OnboardingAnswer) (*domain.UserProfile, error) {
	if !session.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	score, victoryMode, focusPillar := scoreAnswers(answers)
	now := uc.clock.Now()
	profile := &domain.UserProfile{
		UserID:              session.UserID,
		StreakAnchor:        now,
		VictoryMode:         victoryMode,
		FocusPillar:         focusPillar,
		AddictionScore:      score,
		OnboardingCompleted: true,
		Email:               email,
		CreatedAt:           now,
		LastUpdated:         now,
	}

	if err := uc.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := uc.cache.Write(profile); err != nil {
		logrus.Warnf("failed to cache new profile for %s: %v", session.UserID, err)
	}
	return profile, nil
}

func scoreAnswers(answers []domain.OnboardingAnswer) (score int, victoryMode, focusPillar string) {
	victoryMode, focusPillar = domain.UndefinedProfileValue, domain.UndefinedProfileValue
	for _, a := range answers {
		switch {
		case a.QuestionID <= domain.LastScoredQuestion:
			if a.Score != nil {
				score += *a.Score
			}
		case a.QuestionID == domain.VictoryModeQuestion && a.Value != "":
			victoryMode = a.Value
		case a.QuestionID == domain.FocusPillarQuestion && a.Value != "":
			focusPillar = a.Value
		}
	}
	return score, victoryMode, focusPillar
}
