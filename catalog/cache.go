package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

const cacheFileName = "beer_catalog.json"

// ErrCacheMiss is returned when no usable cache snapshot exists.
var ErrCacheMiss = errors.New("catalog cache not found")

// Cache stores a catalog snapshot as a JSON file. Validity is derived
// from the file's modification time, so a snapshot needs no embedded
// metadata and survives process restarts.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates the cache directory if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

// Valid reports whether a snapshot exists and is within the TTL.
func (c *Cache) Valid() bool {
	info, err := os.Stat(c.path())
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.ttl
}

// Age returns how old the snapshot is. A cache miss returns an error.
func (c *Cache) Age() (time.Duration, error) {
	info, err := os.Stat(c.path())
	if err != nil {
		return 0, ErrCacheMiss
	}
	return time.Since(info.ModTime()), nil
}

// Load reads the snapshot regardless of its age. Callers that only want
// fresh data should check Valid first.
func (c *Cache) Load() ([]Beer, error) {
	data, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}

	var beers []Beer
	if err := sonic.Unmarshal(data, &beers); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	return beers, nil
}

// Save writes the snapshot, replacing any previous one.
func (c *Cache) Save(beers []Beer) error {
	data, err := sonic.MarshalIndent(beers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	if err := os.WriteFile(c.path(), data, 0o644); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return nil
}
