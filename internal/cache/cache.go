// Package cache is an on-disk, sha256-keyed cache of parsed programs,
// msgpack-serialized, mirroring the teacher's internal/driver.DiskCache
// (project-hash keyed module metadata) but keyed on source content hash
// instead of a dependency-aware module hash, since TBL sources have no
// cross-file dependency graph to hash.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"tbl/internal/ast"
)

const schemaVersion uint16 = 1

// Key is a sha256 digest of a source text, used as the cache's filename.
type Key [32]byte

// KeyOf hashes src into a Key.
func KeyOf(src string) Key {
	return Key(sha256.Sum256([]byte(src)))
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Payload is what gets written to disk: a parsed Program plus the schema
// version it was written under, so a format change invalidates old
// entries instead of failing to decode them.
type Payload struct {
	Schema  uint16
	Program *ast.Program
}

// DiskCache is a directory of msgpack-encoded Payloads, one per Key.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
	log logrus.FieldLogger
}

// Open creates (if needed) and returns a disk cache rooted at dir. log
// may be nil; when set it receives --verbose-style hit/miss diagnostics.
func Open(dir string, log logrus.FieldLogger) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, log: log}, nil
}

// DefaultDir returns the standard cache location, following
// XDG_CACHE_HOME the way the teacher's OpenDiskCache does.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

func (c *DiskCache) pathFor(key Key) string {
	return filepath.Join(c.dir, "programs", key.String()+".mp")
}

// Put serializes and atomically writes a parsed Program under key.
func (c *DiskCache) Put(key Key, prog *ast.Program) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&Payload{Schema: schemaVersion, Program: prog}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if c.log != nil {
		c.log.WithField("key", key.String()).Debug("cache: wrote entry")
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes the Program cached under key. ok is false on
// a cache miss or a schema-version mismatch; neither is an error.
func (c *DiskCache) Get(key Key) (prog *ast.Program, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if c.log != nil {
				c.log.WithField("key", key.String()).Debug("cache: miss")
			}
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion {
		if c.log != nil {
			c.log.WithField("key", key.String()).Debug("cache: schema mismatch, treating as miss")
		}
		return nil, false, nil
	}
	if c.log != nil {
		c.log.WithField("key", key.String()).Debug("cache: hit")
	}
	return payload.Program, true, nil
}

// DropAll invalidates the whole cache, useful after a schema bump.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return fmt.Errorf("cache: drop all: %w", err)
	}
	return os.RemoveAll(old)
}
