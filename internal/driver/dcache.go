package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"kiln/internal/mir"
	"kiln/internal/types"
)

// Digest is a content hash used as a cache key.
type Digest [sha256.Size]byte

// HashBytes hashes raw unit content into a cache key.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DiskCache stores encoded modules by content digest so unchanged units
// skip lowering on recompilation. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes a disk cache at the standard location:
// $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit
// directory. Used by tests and by --cache-dir overrides.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	// A "mods" subdirectory keeps cache entries apart from anything else
	// a future artifact kind may want to store.
	return filepath.Join(c.dir, "mods", key.String()+".kmod")
}

// StoreModule encodes the module together with its type tables and
// writes it under key. The write is atomic: a temp file followed by a
// rename, so a crashed writer never leaves a torn entry.
func (c *DiskCache) StoreModule(key Digest, m *mir.Module, typesIn *types.Interner) error {
	data, err := mir.Encode(m, typesIn)
	if err != nil {
		return fmt.Errorf("dcache: encode %s: %w", m.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// LoadModule reads the module cached under key. A miss or a schema
// mismatch is not an error; it reports ok=false and the caller
// recompiles.
func (c *DiskCache) LoadModule(key Digest) (*mir.Module, *types.Interner, bool, error) {
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	m, in, err := mir.Decode(data)
	if err != nil {
		// A stale or torn entry invalidates itself.
		return nil, nil, false, nil
	}
	return m, in, true, nil
}

// Clear removes every cached entry.
func (c *DiskCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "mods"))
}
