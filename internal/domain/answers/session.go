// Package answers holds the in-progress answers of one tasting.
package answers

import (
	"fmt"

	"github.com/okian/tasting/internal/domain/catalog"
	"github.com/okian/tasting/internal/domain/model"
)

// Progress bar anchors of the wizard, in percent.
const (
	setupProgress   = 20
	questionsSpan   = 60
	resultsProgress = 100
)

// Answer is one recorded answer. Option is set for choice questions.
type Answer struct {
	Type   catalog.Type    `json:"type"`
	Value  int             `json:"value"`
	Option *catalog.Option `json:"option,omitempty"`
}

// Session is an ordered list of answer slots with a wizard cursor.
// A nil slot is unanswered or skipped. Session is not safe for concurrent use.
type Session struct {
	slots    []*Answer
	cursor   int
	finished bool
}

// New creates a session with n empty slots.
func New(n int) *Session {
	if n < 0 {
		n = 0
	}
	return &Session{slots: make([]*Answer, n)}
}

// Len returns the number of slots.
func (s *Session) Len() int { return len(s.slots) }

func (s *Session) check(index int) error {
	if index < 0 || index >= len(s.slots) {
		return fmt.Errorf("%w: %d not in [0, %d)", model.ErrIndexOutOfRange, index, len(s.slots))
	}
	return nil
}

// Set stores a at index, replacing any previous answer.
func (s *Session) Set(index int, a Answer) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.slots[index] = &a
	return nil
}

// Clear empties the slot at index.
func (s *Session) Clear(index int) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.slots[index] = nil
	return nil
}

// Get returns the answer at index, if any.
func (s *Session) Get(index int) (Answer, bool, error) {
	if err := s.check(index); err != nil {
		return Answer{}, false, err
	}
	if s.slots[index] == nil {
		return Answer{}, false, nil
	}
	return *s.slots[index], true, nil
}

// Answers returns a copy of all slots.
func (s *Session) Answers() []*Answer {
	out := make([]*Answer, len(s.slots))
	for i, a := range s.slots {
		if a != nil {
			cp := *a
			out[i] = &cp
		}
	}
	return out
}

// AnsweredCount counts non-empty slots.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.slots {
		if a != nil {
			n++
		}
	}
	return n
}

// Cursor returns the index of the current question.
func (s *Session) Cursor() int { return s.cursor }

// IsComplete reports whether the cursor is on the last question.
// Earlier slots may still be empty.
func (s *Session) IsComplete() bool {
	return len(s.slots) > 0 && s.cursor == len(s.slots)-1
}

// Next advances the cursor. On the last question it marks the session
// finished and reports false.
func (s *Session) Next() bool {
	if s.cursor < len(s.slots)-1 {
		s.cursor++
		return true
	}
	s.finished = true
	return false
}

// Previous moves the cursor back, stopping at the first question.
func (s *Session) Previous() bool {
	if s.cursor > 0 {
		s.cursor--
		return true
	}
	return false
}

// Skip clears the current slot and advances.
func (s *Session) Skip() bool {
	if len(s.slots) > 0 {
		s.slots[s.cursor] = nil
	}
	return s.Next()
}

// Finished reports whether Next or Skip moved past the last question.
func (s *Session) Finished() bool { return s.finished }

// Reset empties all slots and rewinds the cursor.
func (s *Session) Reset() {
	clear(s.slots)
	s.cursor = 0
	s.finished = false
}

// Progress is the wizard progress bar value in percent.
func (s *Session) Progress() float64 {
	if s.finished {
		return resultsProgress
	}
	if len(s.slots) == 0 {
		return setupProgress
	}
	return setupProgress + float64(s.cursor)/float64(len(s.slots))*questionsSpan
}

// Values returns the raw answer values; empty slots are nil.
func (s *Session) Values() []*int {
	out := make([]*int, len(s.slots))
	for i, a := range s.slots {
		if a != nil {
			v := a.Value
			out[i] = &v
		}
	}
	return out
}
