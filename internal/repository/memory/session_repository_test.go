package memory

import (
	"testing"
	"time"

	"connector-selector/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	s := &store.Session{ID: "abc", Stage: store.StageAwaitingOpening}

	repo.Save(s)
	assert.Equal(t, 1, repo.Count())

	got, ok := repo.Get("abc")
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = repo.Get("missing")
	assert.False(t, ok)

	repo.Delete("abc")
	_, ok = repo.Get("abc")
	assert.False(t, ok)
	assert.Zero(t, repo.Count())
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	repo.Save(&store.Session{ID: "short"})

	assert.Eventually(t, func() bool {
		_, ok := repo.Get("short")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestSessionRepositoryDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultSessionTTL, NewSessionRepository(0).TTL())
}
