package store

import (
	"sync"
	"time"

	"connector-selector/pkg/ledger"
	"connector-selector/pkg/selector"
)

// Stage of the conversation.
type Stage string

const (
	StageAwaitingOpening Stage = "AWAITING_OPENING"
	StageAwaitingAnswer  Stage = "AWAITING_ANSWER"
)

// Session represents the active selection state in memory.
type Session struct {
	ID        string
	Stage     Stage
	Ledger    *ledger.Ledger
	Selector  *selector.Selector
	CreatedAt time.Time
	UpdatedAt time.Time

	// Submissions for one session are serialized.
	mu sync.Mutex
}

func NewSession(id string, l *ledger.Ledger, s *selector.Selector, now time.Time) *Session {
	return &Session{
		ID:        id,
		Stage:     StageAwaitingOpening,
		Ledger:    l,
		Selector:  s,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset clears the ledger and the selector and waits for a new opening message.
func (s *Session) Reset() {
	s.Ledger.Restart()
	s.Selector.Reset()
	s.Stage = StageAwaitingOpening
}
