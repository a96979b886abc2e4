// Package session holds the per-dialogue state and the manager that owns all
// live dialogues. A session belongs exclusively to the conversation that
// created it; within a session, turns are processed one at a time.
package session

import (
	"sync"
	"time"

	"github.com/allokoli/configurator/models"
)

// Turn is one utterance of the dialogue history. The history is append-only
// and used for display and audit, never re-parsed.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one in-progress configuration dialogue.
//
// In voice mode two event sources can write to the same session: transcript
// inference and explicit platform function-call signals. Every mutation must
// happen under the embedded mutex so a step update and a profile update each
// apply atomically.
type Session struct {
	sync.Mutex

	ID           string
	Mode         string
	Step         int
	Profile      models.BusinessProfile
	History      []Turn
	CreatedAt    time.Time
	LastActivity time.Time

	// stepPinned marks that an explicit update_step signal set the current
	// step; transcript-inferred step changes are advisory and ignored while
	// the pin holds. Guarded by the session mutex.
	stepPinned bool
}

// AppendTurn records one utterance in the history. Caller must hold the lock.
func (s *Session) AppendTurn(role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text, Timestamp: time.Now()})
	s.LastActivity = time.Now()
}

// PinStep applies an explicit step signal from the voice platform. Caller
// must hold the lock.
func (s *Session) PinStep(step int) {
	s.Step = step
	s.stepPinned = true
	s.LastActivity = time.Now()
}

// SuggestStep applies a transcript-inferred step change. It is a no-op while
// an explicit signal has pinned the step. Caller must hold the lock.
func (s *Session) SuggestStep(step int) {
	if s.stepPinned {
		return
	}
	s.Step = step
	s.LastActivity = time.Now()
}

// Unpin releases the explicit-signal pin, letting inference move the step
// again. Caller must hold the lock.
func (s *Session) Unpin() {
	s.stepPinned = false
}

// Touch bumps the activity timestamp.
func (s *Session) Touch() {
	s.Lock()
	s.LastActivity = time.Now()
	s.Unlock()
}
