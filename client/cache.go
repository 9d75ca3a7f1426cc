package client

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Cache keys mirrored to durable local storage.
const (
	CacheKeyEntries = "ht_entries_today"
	CacheKeyPending = "ht_pending_toggles"
	CacheKeyHabits  = "ht_habits"
)

// Cache is the durable local key-value collaborator. Strictly best-effort:
// a failed read reports absent, a failed write is swallowed. The store must
// keep working with no cache at all.
type Cache interface {
	// Read unmarshals the stored value into out and reports whether a
	// usable value existed. Corrupt data reads as absent.
	Read(key string, out interface{}) bool
	// Write persists the value. Failures are logged, never surfaced.
	Write(key string, value interface{})
}

// FileCache stores one JSON file per key under a directory. Writes go to a
// temp file first and rename into place, so a crash mid-write leaves the
// previous value intact rather than a torn file.
type FileCache struct {
	Dir string
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

func (c *FileCache) Read(key string, out interface{}) bool {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Corrupt cache degrades to an empty baseline, never a crash.
		return false
	}
	return true
}

func (c *FileCache) Write(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache write skipped for %s: %v", key, err)
		return
	}
	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		log.Printf("cache write skipped for %s: %v", key, err)
		return
	}

	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		log.Printf("cache write skipped for %s: %v", key, err)
		return
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		log.Printf("cache write skipped for %s: %v", key, err)
	}
}
