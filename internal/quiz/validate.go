package quiz

import (
	"fmt"
	"strings"

	"github.com/stemsi/folio-backend/internal/model"
)

// Validate checks that q can drive a Session: at least one question, unique
// question IDs, exactly four non-empty options and a correct index in range.
func Validate(q *model.Quiz) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("quiz id is required")
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz %s: %w", q.ID, ErrEmptyQuiz)
	}

	seen := make(map[int]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("quiz %s: duplicate question id %d", q.ID, question.ID)
		}
		seen[question.ID] = struct{}{}

		if strings.TrimSpace(question.Prompt) == "" {
			return fmt.Errorf("quiz %s: question %d has empty prompt", q.ID, i)
		}
		if len(question.Options) != model.OptionsPerQuestion {
			return fmt.Errorf("quiz %s: question %d has %d options, want %d",
				q.ID, question.ID, len(question.Options), model.OptionsPerQuestion)
		}
		for j, opt := range question.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("quiz %s: question %d option %d is empty", q.ID, question.ID, j)
			}
		}
		if question.CorrectOption < 0 || question.CorrectOption >= len(question.Options) {
			return fmt.Errorf("quiz %s: question %d: %w", q.ID, question.ID, ErrOptionOutOfRange)
		}
	}
	return nil
}
