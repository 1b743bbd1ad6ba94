package model

// ReadingStats are the headline numbers shown on the dashboard.
type ReadingStats struct {
	BooksRead         int    `json:"books_read" yaml:"books_read"`
	BooksReadChange   string `json:"books_read_change" yaml:"books_read_change"`
	ReadingTime       string `json:"reading_time" yaml:"reading_time"`
	ReadingTimeChange string `json:"reading_time_change" yaml:"reading_time_change"`
	QuizzesCompleted  int    `json:"quizzes_completed" yaml:"quizzes_completed"`
	QuizAccuracy      int    `json:"quiz_accuracy" yaml:"quiz_accuracy"`
}

// FeatureStatus describes one assistive feature card.
type FeatureStatus struct {
	Key         string `json:"key" yaml:"key"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Status      string `json:"status" yaml:"status"`
}

// Dashboard is the aggregated landing view.
type Dashboard struct {
	Stats       ReadingStats    `json:"stats"`
	RecentBooks []Book          `json:"recent_books"`
	Features    []FeatureStatus `json:"features"`
}
