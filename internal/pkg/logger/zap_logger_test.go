package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)

	l.Info("AUDIT", "session started", nil)
	l.With(map[string]interface{}{"session_id": "s-1"}).Info("AUDIT", "answer recorded", map[string]interface{}{"attribute": "pitch_size"})
	l.Warn("AUDIT", "escalated", nil)
	l.Debug("AUDIT", "below file level", nil)
	require.NoError(t, l.Sync())

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "escalated", all[0].Message)
	assert.Equal(t, "AUDIT", all[0].Module)

	warns, err := l.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	assert.Len(t, warns, 1)

	session, err := l.GetSessionLogs("s-1", 10)
	require.NoError(t, err)
	require.Len(t, session, 1)
	assert.Equal(t, "pitch_size", session[0].Details["attribute"])

	found, err := l.GetLogById(session[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "answer recorded", found.Message)

	_, err = l.GetLogById("missing")
	assert.True(t, errors.Is(err, ErrLogNotFound))
}

func TestGetLogsPagination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)
	for i := 0; i < 5; i++ {
		l.Info("AUDIT", "tick", map[string]interface{}{"i": i})
	}

	page, err := l.GetLogs("", 2, 4)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	empty, err := l.GetLogs("", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("TEST", "ignored", map[string]interface{}{"error": errors.New("boom")})

	logs, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
