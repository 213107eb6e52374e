package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache records resources a remote reported missing. Each entry is a JSON
// file named after the SHA-256 of its key, so several processes can share a
// directory. A TTL of 0 keeps entries forever.
type Cache struct {
	dir string
	ttl time.Duration
}

type missEntry struct {
	Key     string    `json:"key"`
	Checked time.Time `json:"checked"`
}

// NewCache creates a Cache in dir, or in ~/.cache/mvnkit/missing when dir
// is empty.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "mvnkit", "missing")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns how long a miss is remembered.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Missing reports whether key was recorded as missing within the TTL.
// Expired or unreadable entries count as not missing.
func (c *Cache) Missing(key string) bool {
	data, err := os.ReadFile(c.keyPath(key))
	if err != nil {
		return false
	}
	var e missEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		return false
	}
	return c.ttl == 0 || time.Since(e.Checked) <= c.ttl
}

// MarkMissing records key as missing now.
func (c *Cache) MarkMissing(key string) error {
	data, err := json.Marshal(missEntry{Key: key, Checked: time.Now()})
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

// Forget removes the record for key.
func (c *Cache) Forget(key string) error {
	err := os.Remove(c.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:])+".json")
}
