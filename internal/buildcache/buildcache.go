// ----------------------------------------------------------------------------
// FILE: internal/buildcache/buildcache.go
// ----------------------------------------------------------------------------
// PACKAGE: buildcache
// PURPOSE: Content-addressed incremental-build cache consulted by the driver
//          before re-running IR emission: hit means the prior IR text (or
//          prior failure) is reused verbatim instead of recompiling.
// ----------------------------------------------------------------------------

package buildcache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
)

// formatVersion is embedded in every cache key so a future change to the
// entry layout invalidates old on-disk entries instead of misreading them.
const formatVersion = "neuro-buildcache-v1"

// Entry is one cached compilation result for a single (module, content) pair.
type Entry struct {
	Key       string    `json:"key"`
	BuildID   string    `json:"build_id"`
	ModuleIR  string    `json:"module_ir"`
	Success   bool      `json:"success"`
	Errors    []string  `json:"errors,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache is a bounded in-memory cache backed by an optional on-disk store.
// The in-memory layer is what the driver actually consults on the hot path;
// the disk layer survives process restarts.
type Cache struct {
	mem *lru.Cache[string, Entry]
	dir string // on-disk store root; empty disables persistence
}

// New builds a cache with the given in-memory entry capacity. dir may be
// empty to keep the cache entirely in-process (useful for tests and the
// REPL, which has no file of its own to key off of).
func New(capacity int, dir string) (*Cache, error) {
	if capacity <= 0 {
		capacity = 128
	}
	mem, err := lru.New[string, Entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("buildcache: constructing in-memory cache: %w", err)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("buildcache: creating cache directory: %w", err)
		}
	}
	return &Cache{mem: mem, dir: dir}, nil
}

// Key derives a content-addressed cache key from a module name and its
// source bytes: a SHA-256 content hash plus the format-version header, so a
// cache built by an older binary never collides with one from a newer one.
func Key(moduleName string, source []byte) string {
	sum := sha256.Sum256(source)
	return fmt.Sprintf("%s:%s:%x", formatVersion, moduleName, sum)
}

// Lookup reports whether key already has a cached result, consulting the
// in-memory cache first and falling back to disk.
func (c *Cache) Lookup(key string) (Entry, bool) {
	if entry, ok := c.mem.Get(key); ok {
		return entry, true
	}
	if c.dir == "" {
		return Entry{}, false
	}
	entry, err := c.readDisk(key)
	if err != nil {
		return Entry{}, false
	}
	c.mem.Add(key, entry)
	return entry, true
}

// Store records a compilation result under key, stamping it with a fresh
// build ID, and returns the stored entry. A failed compilation is cached too
// (with Success=false and the error messages), so a deterministically
// broken module doesn't pay full recompilation cost on every call either.
func (c *Cache) Store(key, moduleIR string, success bool, errs []string) Entry {
	entry := Entry{
		Key:       key,
		BuildID:   uuid.NewString(),
		ModuleIR:  moduleIR,
		Success:   success,
		Errors:    errs,
		CreatedAt: time.Now().UTC(),
	}
	c.mem.Add(key, entry)
	if c.dir != "" {
		// Best-effort: an unwritable cache directory degrades to
		// in-memory-only caching rather than failing the build.
		_ = c.writeDisk(key, entry)
	}
	return entry
}

// Purge discards every entry from both the in-memory and on-disk stores.
func (c *Cache) Purge() error {
	c.mem.Purge()
	if c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("buildcache: listing cache directory: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("buildcache: removing stale cache entry %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Len returns the number of entries currently held in memory.
func (c *Cache) Len() int {
	return c.mem.Len()
}

func (c *Cache) diskPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", sum))
}

func (c *Cache) readDisk(key string) (Entry, error) {
	data, err := os.ReadFile(c.diskPath(key))
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("buildcache: decoding cache entry: %w", err)
	}
	return entry, nil
}

func (c *Cache) writeDisk(key string, entry Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("buildcache: encoding cache entry: %w", err)
	}
	return os.WriteFile(c.diskPath(key), data, 0o644)
}
