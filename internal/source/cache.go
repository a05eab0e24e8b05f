package source

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/runger/symnav/internal/outline"
)

const defaultSessionCap = 64

// Sessions keeps built listings per buffer, keyed by an opaque revision
// token supplied by the caller (editor change tick, mtime, content hash).
// A revision mismatch invalidates the buffer's entry wholesale; there is
// no partial or incremental reuse. Eviction across buffers is LRU.
type Sessions struct {
	cache *lru.Cache[string, sessionEntry]
}

type sessionEntry struct {
	revision string
	items    []*outline.Item
}

// NewSessions builds a cache holding at most capacity buffers; a
// non-positive capacity falls back to the default.
func NewSessions(capacity int) *Sessions {
	if capacity <= 0 {
		capacity = defaultSessionCap
	}
	cache, err := lru.New[string, sessionEntry](capacity)
	if err != nil {
		cache, _ = lru.New[string, sessionEntry](defaultSessionCap)
	}
	return &Sessions{cache: cache}
}

// Get returns the cached items for buffer when the stored revision still
// matches. A stale entry is dropped eagerly.
func (s *Sessions) Get(buffer, revision string) ([]*outline.Item, bool) {
	entry, ok := s.cache.Get(buffer)
	if !ok {
		return nil, false
	}
	if entry.revision != revision {
		s.cache.Remove(buffer)
		return nil, false
	}
	return entry.items, true
}

// Put stores the items built for buffer at the given revision, replacing
// any previous entry.
func (s *Sessions) Put(buffer, revision string, items []*outline.Item) {
	s.cache.Add(buffer, sessionEntry{revision: revision, items: items})
}

// Invalidate drops the entry for buffer, if any.
func (s *Sessions) Invalidate(buffer string) {
	s.cache.Remove(buffer)
}

// Len reports the number of cached buffers.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
