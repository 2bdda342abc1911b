package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores artifacts on disk for CLI usage. Each entry is a
// raw data file; entries with a TTL get an expiry sidecar so PNG blobs
// are never re-encoded just to carry metadata.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-backed cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves an artifact, treating expired or unreadable entries as
// misses and pruning them.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	if exp, err := os.ReadFile(path + ".exp"); err == nil {
		deadline, perr := time.Parse(time.RFC3339Nano, string(exp))
		if perr != nil || time.Now().After(deadline) {
			_ = os.Remove(path)
			_ = os.Remove(path + ".exp")
			return nil, false, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores an artifact, writing an expiry sidecar when ttl is set.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	if ttl > 0 {
		deadline := time.Now().Add(ttl).Format(time.RFC3339Nano)
		return os.WriteFile(path+".exp", []byte(deadline), 0644)
	}
	// a previous entry may have carried a TTL
	_ = os.Remove(path + ".exp")
	return nil
}

// Delete removes an artifact and its sidecar.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	path := c.path(key)
	_ = os.Remove(path + ".exp")
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// path converts a cache key to a file path, using the first two hash
// characters as a subdirectory to keep directories small.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".bin")
}

var _ Cache = (*FileCache)(nil)
