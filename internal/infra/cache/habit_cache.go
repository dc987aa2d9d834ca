package cache

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HabitCache stores each user's completed habit ids per day as a JSON list
// under habits:{userID}:{dayKey}.
type HabitCache struct {
	store KVStore
}

func NewHabitCache(store KVStore) *HabitCache {
	return &HabitCache{store: store}
}

// Get returns an empty list for a day with nothing stored.
func (c *HabitCache) Get(userID, dayKey string) ([]string, error) {
	data, err := c.store.Get(habitsKey(userID, dayKey))
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := []string{}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("corrupt habit cache for %s on %s: %w", userID, dayKey, err)
	}
	return ids, nil
}

func (c *HabitCache) Put(userID, dayKey string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.store.Put(habitsKey(userID, dayKey), data)
}

func (c *HabitCache) Delete(userID, dayKey string) error {
	return c.store.Delete(habitsKey(userID, dayKey))
}
