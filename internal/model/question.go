package model

// OptionsPerQuestion is the fixed number of choices every question carries.
const OptionsPerQuestion = 4

// Question represents a single multiple-choice quiz question.
type Question struct {
	ID            int      `json:"id" yaml:"id"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Options       []string `json:"options" yaml:"options"`
	CorrectOption int      `json:"correct_option" yaml:"correct_option"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
}

// Quiz is an immutable, ordered sequence of questions about one book.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	BookID    int        `json:"book_id" yaml:"book_id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// QuizSummary is the list view of a quiz.
type QuizSummary struct {
	ID            string `json:"id"`
	BookID        int    `json:"book_id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// Summary returns the list view of q.
func (q *Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		BookID:        q.BookID,
		Title:         q.Title,
		QuestionCount: len(q.Questions),
	}
}

// QuestionForLearner is a question with the answer withheld.
type QuestionForLearner struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// SelectOptionRequest is the payload for choosing an option.
type SelectOptionRequest struct {
	Option *int `json:"option" binding:"required,min=0"`
}
