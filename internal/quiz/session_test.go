package quiz

import (
	"errors"
	"testing"

	"github.com/stemsi/folio-backend/internal/model"
)

func gatsbyQuiz() *model.Quiz {
	opts := []string{"a", "b", "c", "d"}
	return &model.Quiz{
		ID:     "great-gatsby",
		BookID: 1,
		Title:  "The Great Gatsby",
		Questions: []model.Question{
			{ID: 1, Prompt: "Neighbor?", Options: opts, CorrectOption: 1, Explanation: "Gatsby"},
			{ID: 2, Prompt: "Light color?", Options: opts, CorrectOption: 1, Explanation: "Green"},
			{ID: 3, Prompt: "First outing?", Options: opts, CorrectOption: 2, Explanation: "Valley of Ashes"},
		},
	}
}

// answer selects, submits and advances, failing the test on any error.
func answer(t *testing.T, q *model.Quiz, s Session, option int) Session {
	t.Helper()
	var err error
	if s, err = s.Select(q, option); err != nil {
		t.Fatalf("select %d: %v", option, err)
	}
	if s, err = s.Submit(q); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s, err = s.Advance(q); err != nil {
		t.Fatalf("advance: %v", err)
	}
	return s
}

func TestScenarioTwoOfThree(t *testing.T) {
	q := gatsbyQuiz()
	s := NewSession()

	s = answer(t, q, s, 1)
	if s.Score != 1 || s.Index != 1 {
		t.Fatalf("after q1 expected score 1 index 1, got score %d index %d", s.Score, s.Index)
	}
	s = answer(t, q, s, 0)
	if s.Score != 1 || s.Index != 2 {
		t.Fatalf("after q2 expected score 1 index 2, got score %d index %d", s.Score, s.Index)
	}
	s = answer(t, q, s, 2)

	if s.State() != StateComplete {
		t.Fatalf("expected COMPLETE, got %s", s.State())
	}
	if s.Score != 2 {
		t.Errorf("expected final score 2, got %d", s.Score)
	}
	if p := Percentage(s.Score, len(q.Questions)); p != 67 {
		t.Errorf("expected 67%%, got %d%%", p)
	}
}

func TestSubmitScoring(t *testing.T) {
	q := gatsbyQuiz()

	testCases := []struct {
		name      string
		option    int
		wantScore int
	}{
		{"correct option adds one", 1, 1},
		{"incorrect option adds nothing", 0, 0},
		{"another incorrect option", 3, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSession().Select(q, tc.option)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			s, err = s.Submit(q)
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if s.Score != tc.wantScore {
				t.Errorf("expected score %d, got %d", tc.wantScore, s.Score)
			}
			if s.State() != StateRevealed {
				t.Errorf("expected REVEALED, got %s", s.State())
			}
			if s.Index != 0 || s.Selected == nil || *s.Selected != tc.option {
				t.Errorf("submit must not change index or selection")
			}
			if s.LastCorrect(q) != (tc.wantScore == 1) {
				t.Errorf("LastCorrect mismatch for option %d", tc.option)
			}
		})
	}
}

func TestPreconditionViolationsLeaveSessionUnchanged(t *testing.T) {
	q := gatsbyQuiz()

	selected, _ := NewSession().Select(q, 1)
	revealed, _ := selected.Submit(q)
	complete := answer(t, q, answer(t, q, answer(t, q, NewSession(), 1), 1), 2)

	testCases := []struct {
		name    string
		start   Session
		op      func(Session) (Session, error)
		wantErr error
	}{
		{"submit without selection", NewSession(), func(s Session) (Session, error) { return s.Submit(q) }, ErrNoSelection},
		{"advance while answering", selected, func(s Session) (Session, error) { return s.Advance(q) }, ErrInvalidTransition},
		{"select after reveal", revealed, func(s Session) (Session, error) { return s.Select(q, 2) }, ErrInvalidTransition},
		{"submit twice", revealed, func(s Session) (Session, error) { return s.Submit(q) }, ErrInvalidTransition},
		{"negative option", NewSession(), func(s Session) (Session, error) { return s.Select(q, -1) }, ErrOptionOutOfRange},
		{"option past end", NewSession(), func(s Session) (Session, error) { return s.Select(q, 4) }, ErrOptionOutOfRange},
		{"advance after complete", complete, func(s Session) (Session, error) { return s.Advance(q) }, ErrInvalidTransition},
		{"select after complete", complete, func(s Session) (Session, error) { return s.Select(q, 0) }, ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.op(tc.start)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if got.Index != tc.start.Index || got.Score != tc.start.Score ||
				got.Revealed != tc.start.Revealed || got.Complete != tc.start.Complete ||
				got.Selected != tc.start.Selected {
				t.Errorf("session changed on rejected transition: %+v -> %+v", tc.start, got)
			}
		})
	}
}

func TestAdvanceClearsSelection(t *testing.T) {
	q := gatsbyQuiz()
	s, _ := NewSession().Select(q, 1)
	s, _ = s.Submit(q)
	s, err := s.Advance(q)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Selected != nil {
		t.Error("selection must be cleared after advancing")
	}
	if s.State() != StateAnswering || s.Index != 1 {
		t.Errorf("expected ANSWERING on index 1, got %s on %d", s.State(), s.Index)
	}
}

func TestCompleteIsReachedExactlyOnce(t *testing.T) {
	q := gatsbyQuiz()
	s := NewSession()
	completions := 0

	for step := 0; step < 10; step++ {
		before := s.State()
		if next, err := s.Select(q, 0); err == nil {
			s = next
		}
		if next, err := s.Submit(q); err == nil {
			s = next
		}
		if next, err := s.Advance(q); err == nil {
			s = next
		}
		if before != StateComplete && s.State() == StateComplete {
			completions++
		}
	}

	if completions != 1 {
		t.Errorf("expected exactly one completion, got %d", completions)
	}
	if s.Index != len(q.Questions)-1 {
		t.Errorf("index must stay on last question after completion, got %d", s.Index)
	}
}

func TestRestartFromEveryState(t *testing.T) {
	q := gatsbyQuiz()
	selected, _ := NewSession().Select(q, 1)
	revealed, _ := selected.Submit(q)
	complete := answer(t, q, answer(t, q, answer(t, q, NewSession(), 1), 1), 2)

	for name, s := range map[string]Session{
		"answering": NewSession(),
		"selected":  selected,
		"revealed":  revealed,
		"complete":  complete,
	} {
		t.Run(name, func(t *testing.T) {
			r := s.Restart()
			if r.Index != 0 || r.Score != 0 || r.Selected != nil || r.State() != StateAnswering {
				t.Errorf("restart did not reset: %+v", r)
			}
		})
	}
}

func TestScoreNeverExceedsAnswered(t *testing.T) {
	q := gatsbyQuiz()
	choices := [][]int{{1, 1, 2}, {0, 0, 0}, {1, 0, 2}, {3, 1, 2}}

	for _, picks := range choices {
		s := NewSession()
		for _, p := range picks {
			s, _ = s.Select(q, p)
			if s.Score > s.Answered() {
				t.Fatalf("score %d exceeds answered %d", s.Score, s.Answered())
			}
			s, _ = s.Submit(q)
			if s.Score > s.Answered() {
				t.Fatalf("score %d exceeds answered %d", s.Score, s.Answered())
			}
			s, _ = s.Advance(q)
			if s.Score > s.Answered() {
				t.Fatalf("score %d exceeds answered %d", s.Score, s.Answered())
			}
		}
	}
}

func TestPercentageAndProgress(t *testing.T) {
	testCases := []struct {
		score, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13},
		{0, 0, 0},
	}
	for _, tc := range testCases {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}

	if got := Progress(0, 3); got != 33 {
		t.Errorf("Progress(0, 3) = %d, want 33", got)
	}
	if got := Progress(2, 3); got != 100 {
		t.Errorf("Progress(2, 3) = %d, want 100", got)
	}
}

func TestEmptyQuizRejected(t *testing.T) {
	empty := &model.Quiz{ID: "empty"}
	if _, err := NewSession().Select(empty, 0); !errors.Is(err, ErrEmptyQuiz) {
		t.Errorf("expected ErrEmptyQuiz, got %v", err)
	}
	if err := Validate(empty); !errors.Is(err, ErrEmptyQuiz) {
		t.Errorf("expected Validate to wrap ErrEmptyQuiz, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(gatsbyQuiz()); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}

	dup := gatsbyQuiz()
	dup.Questions[1].ID = 1
	if err := Validate(dup); err == nil {
		t.Error("expected duplicate id to be rejected")
	}

	short := gatsbyQuiz()
	short.Questions[0].Options = []string{"a", "b", "c"}
	if err := Validate(short); err == nil {
		t.Error("expected three options to be rejected")
	}

	badKey := gatsbyQuiz()
	badKey.Questions[2].CorrectOption = 4
	if err := Validate(badKey); !errors.Is(err, ErrOptionOutOfRange) {
		t.Errorf("expected ErrOptionOutOfRange, got %v", err)
	}
}
