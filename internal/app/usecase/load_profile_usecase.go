package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

type ProfileSource string

const (
	SourceRemote ProfileSource = "remote"
	SourceCache  ProfileSource = "cache"
)

// LoadProfileUsecase serves the cached profile when the remote store cannot
// answer, and refreshes the cache whenever it can. Remote always wins.
type LoadProfileUsecase struct {
	profiles domain.ProfileRepository
	cache    domain.ProfileCache
}

func NewLoadProfileUsecase(profiles domain.ProfileRepository, cache domain.ProfileCache) *LoadProfileUsecase {
	return &LoadProfileUsecase{profiles: profiles, cache: cache}
}

func (uc *LoadProfileUsecase) Execute(ctx context.Context, session domain.Session) (*domain.UserProfile, ProfileSource, error) {
	if !session.Authenticated() {
		return nil, "", domain.ErrNotAuthenticated
	}

	cached, hasCache := uc.cache.Read(session.UserID)

	remote, err := uc.profiles.GetProfile(ctx, session.UserID)
	if err != nil {
		if hasCache {
			logrus.Warnf("profile fetch failed for %s, using cached copy: %v", session.UserID, err)
			return cached, SourceCache, nil
		}
		return nil, "", fmt.Errorf("failed to load profile: %w", err)
	}

	if remote == nil {
		if hasCache {
			return cached, SourceCache, nil
		}
		return nil, "", domain.ErrProfileNotFound
	}

	if err := uc.cache.Write(remote); err != nil {
		logrus.Warnf("failed to cache profile for %s: %v", session.UserID, err)
	}
	return remote, SourceRemote, nil
}
