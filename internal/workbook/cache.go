package workbook

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes parsed workbooks by the SHA-256 of the file name and uploaded
// bytes. Entries are never evicted: a new upload is a new key. Concurrent loads
// of the same upload parse once.
type Cache struct {
	log *zap.Logger

	mu      sync.RWMutex
	entries map[string]*Workbook
	group   singleflight.Group
	parses  int
}

// NewCache creates an empty cache. A nil logger is replaced by a no-op one.
func NewCache(log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{log: log, entries: map[string]*Workbook{}}
}

// Key returns the cache key for an upload. The base name is part of the key
// since it picks the CSV delimiter and names the sheet.
func Key(name string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(filepath.Base(name)))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Load returns the workbook for the content, parsing only on the first request
// for that content.
func (c *Cache) Load(name string, data []byte) (*Workbook, string, error) {
	key := Key(name, data)
	if wb, ok := c.Get(key); ok {
		c.log.Debug("workbook cache hit", zap.String("key", key[:12]), zap.String("file", name))
		return wb, key, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if wb, ok := c.Get(key); ok {
			return wb, nil
		}
		wb, err := Load(name, data)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = wb
		c.parses++
		c.mu.Unlock()
		c.log.Info("workbook loaded",
			zap.String("key", key[:12]),
			zap.String("file", wb.Name),
			zap.Int("sheets", wb.Len()),
			zap.Strings("names", wb.Names()))
		return wb, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.(*Workbook), key, nil
}

// Put stores an already built workbook under a key, e.g. the sample dataset.
func (c *Cache) Put(key string, wb *Workbook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = wb
}

// Get resolves a key.
func (c *Cache) Get(key string) (*Workbook, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wb, ok := c.entries[key]
	return wb, ok
}

// Len returns the number of cached workbooks.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Parses returns how many times content was actually parsed.
func (c *Cache) Parses() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parses
}
