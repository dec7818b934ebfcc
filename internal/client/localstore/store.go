// Package localstore is the client's durable key/value storage, the
// equivalent of the browser's localStorage: small string payloads under
// well-known keys, surviving process restarts.
package localstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store persists one file per key under a state directory.
type Store struct {
	dir string
}

// New creates the state directory when missing.
func New(dir string) (*Store, error) {
	d := strings.TrimSpace(dir)
	if d == "" {
		return nil, errors.New("localstore: dir is empty")
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return nil, err
	}
	return &Store{dir: d}, nil
}

// Get returns the stored value for key. The second result is false when
// the key is absent; read failures other than absence are returned.
func (s *Store) Get(key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

// Set writes the value for key.
func (s *Store) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// Remove deletes the key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) path(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" || strings.ContainsAny(k, `/\`) {
		return "", errors.New("localstore: invalid key")
	}
	return filepath.Join(s.dir, k+".json"), nil
}
