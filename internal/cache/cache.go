// Package cache provides persistent caching of whole-file content hashes,
// keyed by path, so unchanged files can skip re-hashing between runs.
package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketName = "hashes"
	hashSize   = 32
	openRetry  = 3 * time.Second
)

// Entry is one cached row: the hash computed for Path as of Mtime, and the
// size it had then (recorded for diagnostics; mtime alone governs
// freshness — see Get).
type Entry struct {
	Path  string
	Mtime int64 // unix seconds
	Size  int64
	Hash  [hashSize]byte
}

// Cache is a persistent path -> Entry store backed by BoltDB. A nil path
// at Open disables it: every operation becomes a harmless no-op, so
// callers don't need to branch on whether caching is configured.
type Cache struct {
	db      *bolt.DB
	enabled bool
}

// Open opens (creating if necessary) the cache file at path. An empty path
// returns a disabled cache.
func Open(path string) (*Cache, error) {
	if path == "" {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openRetry})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache bucket: %w", err)
	}

	return &Cache{db: db, enabled: true}, nil
}

// Close closes the underlying database. A no-op on a disabled cache.
func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached entry for path if present and fresh — fresh
// meaning its stored mtime matches currentMtime exactly (unix-second
// granularity). A size mismatch alone does not invalidate the entry;
// mtime is the sole authority on freshness. Returns (nil, nil) on a
// cache miss or a disabled cache.
func (c *Cache) Get(path string, currentMtime int64) (*Entry, error) {
	if !c.enabled {
		return nil, nil
	}

	var entry *Entry
	err := c.retry(func() error {
		return c.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			data := b.Get([]byte(path))
			if data == nil {
				return nil
			}
			e, ok := decode(data)
			if !ok {
				return nil
			}
			e.Path = path
			entry = &e
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", path, err)
	}
	if entry == nil || entry.Mtime != currentMtime {
		return nil, nil
	}
	return entry, nil
}

// Put inserts or replaces the row for entry.Path.
func (c *Cache) Put(entry Entry) error {
	if !c.enabled {
		return nil
	}
	err := c.retry(func() error {
		return c.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			return b.Put([]byte(entry.Path), encode(entry))
		})
	})
	if err != nil {
		return fmt.Errorf("cache put %s: %w", entry.Path, err)
	}
	return nil
}

// Delete removes the row for path, if present.
func (c *Cache) Delete(path string) error {
	if !c.enabled {
		return nil
	}
	err := c.retry(func() error {
		return c.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			return b.Delete([]byte(path))
		})
	})
	if err != nil {
		return fmt.Errorf("cache delete %s: %w", path, err)
	}
	return nil
}

// retry re-issues fn while it returns bolt.ErrTimeout, yielding the
// goroutine between attempts. bbolt returns ErrTimeout when the file lock
// can't be taken within Options.Timeout, which happens in Open; View and
// Update on an open handle wait on bbolt's own locks instead, so fn
// normally runs once. Grounded in
// original_source/src/db.rs's retry_on_busy, translated from SQLite's
// SQLITE_BUSY to bbolt's equivalent.
func (c *Cache) retry(fn func() error) error {
	for {
		err := fn()
		if err != bolt.ErrTimeout {
			return err
		}
		runtime.Gosched()
	}
}

// encode serializes an Entry as mtime(8) + size(8) + hash(32), big-endian.
func encode(e Entry) []byte {
	buf := make([]byte, 8+8+hashSize)
	binary.BigEndian.PutUint64(buf[0:8], uint64(e.Mtime))
	binary.BigEndian.PutUint64(buf[8:16], uint64(e.Size))
	copy(buf[16:], e.Hash[:])
	return buf
}

// decode is the inverse of encode; reports false if data is malformed.
func decode(data []byte) (Entry, bool) {
	if len(data) != 8+8+hashSize {
		return Entry{}, false
	}
	var e Entry
	e.Mtime = int64(binary.BigEndian.Uint64(data[0:8]))
	e.Size = int64(binary.BigEndian.Uint64(data[8:16]))
	copy(e.Hash[:], data[16:])
	return e, true
}
