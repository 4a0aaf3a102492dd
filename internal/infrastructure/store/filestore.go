package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

// FileStore is the default backend: one JSON file per collection inside a
// single directory, mirroring a per-device profile. Writes go through a
// temp file and an atomic rename, so a crash mid-write leaves either the
// old value or the new one, never a torn file.
type FileStore struct {
	dir string
	log zerolog.Logger
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) Accounts(_ context.Context) []domain.Account {
	return decodeAccounts(s.read(collAccounts), s.log)
}

func (s *FileStore) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	raw, err := encodeAccounts(accounts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collAccounts, err)
	}
	return s.write(collAccounts, raw)
}

func (s *FileStore) SessionEmail(_ context.Context) (string, bool) {
	return decodeSession(s.read(collSession), s.log)
}

func (s *FileStore) SaveSessionEmail(_ context.Context, email string) error {
	raw, err := encodeSession(email)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collSession, err)
	}
	return s.write(collSession, raw)
}

func (s *FileStore) ClearSessionEmail(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(collSession))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear %s: %w", collSession, err)
	}
	return nil
}

func (s *FileStore) ResetTokens(_ context.Context) []domain.ResetToken {
	return decodeTokens(s.read(collTokens), s.log)
}

func (s *FileStore) SaveResetTokens(_ context.Context, tokens []domain.ResetToken) error {
	raw, err := encodeTokens(tokens)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collTokens, err)
	}
	return s.write(collTokens, raw)
}

// Ping reports whether the data directory is still reachable. Used by the
// readiness probe.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("store dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store dir %s is not a directory", s.dir)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) read(name string) []byte {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("collection", name).Msg("unreadable collection, treating as empty")
		}
		return nil
	}
	return raw
}

func (s *FileStore) write(name string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
