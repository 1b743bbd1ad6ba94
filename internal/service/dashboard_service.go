package service

import (
	"context"
	"math"

	"github.com/stemsi/folio-backend/internal/model"
)

// RecentBooksLimit caps the "continue reading" list.
const RecentBooksLimit = 3

// CompletionCounter reports live quiz completions.
type CompletionCounter interface {
	CompletionStats() (completed, percentageSum int)
}

// DashboardService assembles the home screen.
type DashboardService struct {
	library  *LibraryService
	quizzes  CompletionCounter
	stats    model.ReadingStats
	features []model.FeatureStatus
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(library *LibraryService, quizzes CompletionCounter, stats model.ReadingStats, features []model.FeatureStatus) *DashboardService {
	return &DashboardService{
		library:  library,
		quizzes:  quizzes,
		stats:    stats,
		features: features,
	}
}

// GetDashboard merges the baseline reading stats with quizzes completed
// since startup and lists recently opened books.
func (s *DashboardService) GetDashboard(ctx context.Context) (*model.Dashboard, error) {
	recent, err := s.library.Recent(ctx, RecentBooksLimit)
	if err != nil {
		return nil, err
	}

	stats := s.stats
	if s.quizzes != nil {
		completed, pctSum := s.quizzes.CompletionStats()
		if completed > 0 {
			total := stats.QuizzesCompleted + completed
			weighted := stats.QuizAccuracy*stats.QuizzesCompleted + pctSum
			stats.QuizzesCompleted = total
			stats.QuizAccuracy = int(math.Round(float64(weighted) / float64(total)))
		}
	}

	features := make([]model.FeatureStatus, len(s.features))
	copy(features, s.features)

	return &model.Dashboard{
		Stats:       stats,
		RecentBooks: recent,
		Features:    features,
	}, nil
}
