package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/symnav/internal/outline"
)

func cachedItems(name string) []*outline.Item {
	return []*outline.Item{{Name: name, Kind: outline.KindFunction, Line: 1, Col: 1}}
}

func TestSessionsHitAndMiss(t *testing.T) {
	s := NewSessions(4)

	_, ok := s.Get("a.go", "rev1")
	assert.False(t, ok)

	s.Put("a.go", "rev1", cachedItems("alpha"))
	items, ok := s.Get("a.go", "rev1")
	require.True(t, ok)
	assert.Equal(t, "alpha", items[0].Name)
}

func TestSessionsRevisionMismatchInvalidates(t *testing.T) {
	s := NewSessions(4)
	s.Put("a.go", "rev1", cachedItems("alpha"))

	_, ok := s.Get("a.go", "rev2")
	assert.False(t, ok, "a new revision invalidates the whole entry")
	assert.Zero(t, s.Len(), "the stale entry is dropped, not kept around")
}

func TestSessionsReplaceOnPut(t *testing.T) {
	s := NewSessions(4)
	s.Put("a.go", "rev1", cachedItems("alpha"))
	s.Put("a.go", "rev2", cachedItems("beta"))

	items, ok := s.Get("a.go", "rev2")
	require.True(t, ok)
	assert.Equal(t, "beta", items[0].Name)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsEvictsLeastRecentBuffer(t *testing.T) {
	s := NewSessions(2)
	s.Put("a.go", "r", cachedItems("alpha"))
	s.Put("b.go", "r", cachedItems("beta"))

	_, ok := s.Get("a.go", "r") // refresh a.go
	require.True(t, ok)

	s.Put("c.go", "r", cachedItems("gamma"))

	_, ok = s.Get("b.go", "r")
	assert.False(t, ok, "least recently used buffer is evicted")
	_, ok = s.Get("a.go", "r")
	assert.True(t, ok)
}

func TestSessionsInvalidate(t *testing.T) {
	s := NewSessions(4)
	s.Put("a.go", "r", cachedItems("alpha"))
	s.Invalidate("a.go")

	_, ok := s.Get("a.go", "r")
	assert.False(t, ok)
}

func TestNewSessionsDefaultCapacity(t *testing.T) {
	s := NewSessions(0)
	s.Put("a.go", "r", cachedItems("alpha"))
	_, ok := s.Get("a.go", "r")
	assert.True(t, ok)
}
