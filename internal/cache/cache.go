// Package cache keeps per-file scan results keyed by content hash so
// unchanged files can skip detection on the next run.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/keyward/keyward/internal/types"
)

// FileName is the cache file written at the scan root.
const FileName = ".keywardcache.json"

// Entry is the cached outcome of scanning one file.
type Entry struct {
	Hash     string          `json:"hash"`
	Findings []types.Finding `json:"findings"`
}

// DB is safe for concurrent Lookup/Store from scan workers.
type DB struct {
	mu sync.Mutex
	// Fingerprint identifies the detector settings the entries were made with.
	Fingerprint string           `json:"fingerprint"`
	Entries     map[string]Entry `json:"entries"`
}

// Path is where the cache for root lives: inside .git when root is a
// repository, otherwise FileName at root.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "keywardcache.json")
	}
	return filepath.Join(root, FileName)
}

// Load reads the cache for root. Entries recorded under a different
// fingerprint are discarded. An empty, usable DB is returned on error.
func Load(root, fingerprint string) (*DB, error) {
	db := &DB{Fingerprint: fingerprint, Entries: map[string]Entry{}}
	b, err := os.ReadFile(Path(root))
	if err != nil {
		return db, err
	}
	var disk DB
	if err := json.Unmarshal(b, &disk); err != nil {
		return db, err
	}
	if disk.Fingerprint == fingerprint && disk.Entries != nil {
		db.Entries = disk.Entries
	}
	return db, nil
}

func Save(root string, db *DB) error {
	if db == nil || db.Entries == nil {
		return errors.New("empty cache")
	}
	db.mu.Lock()
	b, err := json.MarshalIndent(db, "", "  ")
	db.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(Path(root), b, 0644)
}

// Lookup returns cached findings for path when its content hash matches.
func (db *DB) Lookup(path string, data []byte) ([]types.Finding, bool) {
	h := Hash(data)
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.Entries[path]
	if !ok || e.Hash != h {
		return nil, false
	}
	return append([]types.Finding(nil), e.Findings...), true
}

func (db *DB) Store(path string, data []byte, findings []types.Finding) {
	e := Entry{Hash: Hash(data), Findings: findings}
	db.mu.Lock()
	db.Entries[path] = e
	db.mu.Unlock()
}

// Hash returns a 16-digit hex xxhash of b.
func Hash(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
