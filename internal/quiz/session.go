package quiz

import (
	"errors"
	"math"

	"github.com/stemsi/folio-backend/internal/model"
)

// Transition errors. The session is left untouched whenever one is returned.
var (
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrNoSelection       = errors.New("no option selected")
	ErrOptionOutOfRange  = errors.New("option index out of range")
	ErrEmptyQuiz         = errors.New("quiz has no questions")
)

// State enumerates the phases of a quiz attempt.
type State string

const (
	StateAnswering State = "ANSWERING"
	StateRevealed  State = "REVEALED"
	StateComplete  State = "COMPLETE"
)

// Session is the mutable state of one quiz attempt. It is a plain value:
// every transition returns a new Session and never modifies the receiver.
type Session struct {
	Index    int
	Selected *int
	Revealed bool
	Score    int
	Complete bool
}

// NewSession returns a session positioned on the first question.
func NewSession() Session {
	return Session{}
}

// State derives the current phase from the session flags.
func (s Session) State() State {
	switch {
	case s.Complete:
		return StateComplete
	case s.Revealed:
		return StateRevealed
	default:
		return StateAnswering
	}
}

// Select records the chosen option for the current question.
func (s Session) Select(q *model.Quiz, option int) (Session, error) {
	if len(q.Questions) == 0 {
		return s, ErrEmptyQuiz
	}
	if s.State() != StateAnswering {
		return s, ErrInvalidTransition
	}
	if option < 0 || option >= len(q.Questions[s.Index].Options) {
		return s, ErrOptionOutOfRange
	}

	next := s
	next.Selected = &option
	return next, nil
}

// Submit reveals the current answer and scores the selection.
func (s Session) Submit(q *model.Quiz) (Session, error) {
	if len(q.Questions) == 0 {
		return s, ErrEmptyQuiz
	}
	if s.State() != StateAnswering {
		return s, ErrInvalidTransition
	}
	if s.Selected == nil {
		return s, ErrNoSelection
	}

	next := s
	next.Revealed = true
	if *s.Selected == q.Questions[s.Index].CorrectOption {
		next.Score++
	}
	return next, nil
}

// Advance moves past a revealed question, completing the quiz after the last one.
func (s Session) Advance(q *model.Quiz) (Session, error) {
	if len(q.Questions) == 0 {
		return s, ErrEmptyQuiz
	}
	if s.State() != StateRevealed {
		return s, ErrInvalidTransition
	}

	next := s
	if s.Index == len(q.Questions)-1 {
		next.Complete = true
		return next, nil
	}

	next.Index++
	next.Selected = nil
	next.Revealed = false
	return next, nil
}

// Restart is valid from any state.
func (s Session) Restart() Session {
	return NewSession()
}

// Answered is the number of questions whose answer has been revealed.
func (s Session) Answered() int {
	if s.Revealed || s.Complete {
		return s.Index + 1
	}
	return s.Index
}

// LastCorrect reports whether the revealed selection matched the answer.
// It is false while the current question is unrevealed.
func (s Session) LastCorrect(q *model.Quiz) bool {
	if !s.Revealed || s.Selected == nil || len(q.Questions) == 0 {
		return false
	}
	return *s.Selected == q.Questions[s.Index].CorrectOption
}

// Percentage returns round(score/total*100).
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Progress returns the share of the quiz reached, counting the current question.
func Progress(index, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(index+1) / float64(total) * 100))
}
