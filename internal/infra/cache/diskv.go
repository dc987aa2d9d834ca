package cache

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps each key in its own file under a base directory. Colons
// separate directories: "habits:u1:2024-01-01" lands in habits/u1/2024-01-01.
type DiskvStore struct {
	d *diskv.Diskv
}

func NewDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, ":")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsRune(p, '/') {
			return &diskv.PathKey{Path: []string{}, FileName: key}
		}
	}
	return &diskv.PathKey{Path: parts[:len(parts)-1], FileName: parts[len(parts)-1]}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pk.Path...), pk.FileName), ":")
}

func (s *DiskvStore) Get(key string) ([]byte, error) {
	val, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *DiskvStore) Put(key string, value []byte) error {
	return s.d.Write(key, value)
}

func (s *DiskvStore) Delete(key string) error {
	err := s.d.Erase(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
