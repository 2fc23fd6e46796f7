// Package store provides the embedded conversion cache. Re-running
// `process` on a folder skips files whose content hash already has a
// cached markdown rendition.
package store

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
	"github.com/timshannon/badgerhold/v4"
)

// Entry is one cached conversion, keyed by the source file's sha256.
type Entry struct {
	Key         string `badgerhold:"key"`
	SourceName  string
	Markdown    string
	ConvertedAt time.Time
}

// Cache wraps the badgerhold store. A nil Cache is valid and means caching
// is disabled; all methods degrade to misses/no-ops.
type Cache struct {
	store *badgerhold.Store
}

// Open opens (or creates) the cache under dir. Open failure is reported so
// the caller can log it and continue uncached.
func Open(dir string) (*Cache, error) {
	options := badgerhold.DefaultOptions
	options.Options = badger.DefaultOptions(dir).WithLogger(nil)

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("cannot open conversion cache at %s: %w", dir, err)
	}
	return &Cache{store: store}, nil
}

// Get returns the cached markdown for a content hash, if present.
func (c *Cache) Get(sha string) (string, bool) {
	if c == nil || c.store == nil {
		return "", false
	}
	var entry Entry
	if err := c.store.Get(sha, &entry); err != nil {
		if err != badgerhold.ErrNotFound {
			log.Warn().Err(err).Msg("conversion cache read failed")
		}
		return "", false
	}
	return entry.Markdown, true
}

// Put stores a conversion result. Failures are logged, never fatal.
func (c *Cache) Put(sha, sourceName, markdown string) {
	if c == nil || c.store == nil {
		return
	}
	entry := Entry{
		Key:         sha,
		SourceName:  sourceName,
		Markdown:    markdown,
		ConvertedAt: time.Now(),
	}
	if err := c.store.Upsert(sha, &entry); err != nil {
		log.Warn().Err(err).Str("source", sourceName).Msg("conversion cache write failed")
	}
}

// Close releases the underlying badger store.
func (c *Cache) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}
