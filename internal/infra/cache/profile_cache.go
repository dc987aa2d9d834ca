package cache

import (
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

// ProfileCache stores each user's last known profile as JSON under
// profile:{userID}.
type ProfileCache struct {
	store KVStore
}

func NewProfileCache(store KVStore) *ProfileCache {
	return &ProfileCache{store: store}
}

// Read returns the cached profile of userID. Unreadable entries count as absent.
func (c *ProfileCache) Read(userID string) (*domain.UserProfile, bool) {
	data, err := c.store.Get(profileKey(userID))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logrus.Warnf("failed to read cached profile of %s: %v", userID, err)
		}
		return nil, false
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		logrus.Warnf("discarding unreadable cached profile of %s: %v", userID, err)
		return nil, false
	}
	return &profile, true
}

func (c *ProfileCache) Write(profile *domain.UserProfile) error {
	if profile.UserID == "" {
		return errors.New("cache: profile without user id")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.store.Put(profileKey(profile.UserID), data)
}
