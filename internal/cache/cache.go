// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache implements a content-addressed, time-expiring response
// store: one JSON file per key under a fixed directory. Keys are derived
// deterministically from an operation name and its ordered arguments, so the
// same request reuses the same entry across runs. Storage failures are never
// fatal; a corrupt or stale entry is deleted and reported as a miss.
// Implements: prd001-corpus-fetch R5 (response caching);
//
//	docs/ARCHITECTURE § Response Cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/journal-metrics/pkg/types"
)

// DefaultTTL is the entry lifetime when the config does not set one.
const DefaultTTL = 24 * time.Hour

// entry is the on-disk envelope: the payload plus its creation time.
type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Store is a file-per-key expiring cache rooted at a single directory.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// Open prepares the cache directory and returns a Store.
func Open(cfg types.CacheConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("cache directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", cfg.Dir, err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{dir: cfg.Dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// Key derives the deterministic cache key for an operation and its ordered
// arguments. Same arguments always yield the same key.
func Key(op string, args ...string) string {
	h := sha256.Sum256([]byte(op + "\x00" + strings.Join(args, "\x00")))
	return hex.EncodeToString(h[:])
}

// Get returns the payload stored under key and true, or nil and false when
// the entry is absent, expired, or unreadable. Expired and corrupt entries
// are deleted as a side effect.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		os.Remove(path)
		return nil, false
	}

	if s.now().Sub(e.StoredAt) > s.ttl {
		os.Remove(path)
		return nil, false
	}
	return e.Payload, true
}

// Put stores payload under key, overwriting any previous entry wholesale.
// The write goes through a temp file and rename so a concurrent reader never
// sees a half-written entry. Errors are returned but callers treat them as
// advisory: a failed Put only costs a future re-fetch.
func (s *Store) Put(key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding cache payload: %w", err)
	}
	data, err := json.Marshal(entry{StoredAt: s.now(), Payload: raw})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache entry: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing cache temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries best-effort and returns how many were removed.
// An entry that cannot be removed is skipped, never an error.
func (s *Store) Clear() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
