// Package cache is the local key/value layer: each user's habit ids per day
// and their last known profile. Other collaborators share the keyspace, so
// nothing here enumerates or clears keys it does not own.
package cache

import "errors"

var ErrNotFound = errors.New("cache: key not found")

// KVStore is a synchronous local key/value store.
type KVStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

const (
	habitsKeyPrefix  = "habits:"
	profileKeyPrefix = "profile:"
)

func habitsKey(userID, dayKey string) string {
	return habitsKeyPrefix + userID + ":" + dayKey
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}
