package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/event"
	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/quiz"
)

// QuizService runs in-memory quiz sessions over the fixed quiz catalog.
type QuizService struct {
	source QuizSource
	rdb    *redis.Client
	ttl    time.Duration
	events EventSink
	log    zerolog.Logger
	now    func() time.Time

	mu            sync.Mutex
	sessions      map[uuid.UUID]*quizSession
	completed     int
	percentageSum int
}

type quizSession struct {
	quiz      *model.Quiz
	state     quiz.Session
	updatedAt time.Time
}

// NewQuizService creates a new QuizService. rdb and events may be nil.
func NewQuizService(source QuizSource, rdb *redis.Client, ttl time.Duration, events EventSink, log zerolog.Logger) *QuizService {
	if events == nil {
		events = discardSink{}
	}
	return &QuizService{
		source:   source,
		rdb:      rdb,
		ttl:      ttl,
		events:   events,
		log:      log.With().Str("component", "quiz_service").Logger(),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*quizSession),
	}
}

// Reveal is the feedback shown once an answer is submitted.
type Reveal struct {
	CorrectOption int    `json:"correct_option"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// Result is the summary shown once the quiz is complete.
type Result struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Incorrect  int `json:"incorrect"`
	Percentage int `json:"percentage"`
}

// SessionView is the learner-facing snapshot of a quiz session. The answer
// to the current question is only included after it has been submitted.
type SessionView struct {
	ID             uuid.UUID                 `json:"id"`
	QuizID         string                    `json:"quiz_id"`
	Title          string                    `json:"title"`
	State          quiz.State                `json:"state"`
	QuestionNumber int                       `json:"question_number"`
	TotalQuestions int                       `json:"total_questions"`
	Progress       int                       `json:"progress"`
	Score          int                       `json:"score"`
	Answered       int                       `json:"answered"`
	SelectedOption *int                      `json:"selected_option"`
	Question       *model.QuestionForLearner `json:"question,omitempty"`
	Reveal         *Reveal                   `json:"reveal,omitempty"`
	Result         *Result                   `json:"result,omitempty"`
}

// ListQuizzes returns a summary of every playable quiz.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]model.QuizSummary, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.QuizIndexKey()).Bytes()
		switch {
		case err == nil:
			var summaries []model.QuizSummary
			if jsonErr := json.Unmarshal(raw, &summaries); jsonErr == nil {
				return summaries, nil
			}
			s.log.Warn().Msg("Corrupt quiz index cache entry, reloading")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Msg("Quiz index cache read failed")
		}
	}

	quizzes, err := s.playableQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	s.refillCache(ctx, quizzes)
	return summarize(quizzes), nil
}

// WarmCache loads every quiz index and payload into Redis in one pipeline.
// No-op without a Redis client.
func (s *QuizService) WarmCache(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	quizzes, err := s.playableQuizzes(ctx)
	if err != nil {
		return err
	}
	if err := s.cacheQuizzes(ctx, quizzes); err != nil {
		return err
	}

	s.log.Debug().Int("quizzes", len(quizzes)).Msg("Quiz cache warmed")
	return nil
}

// playableQuizzes reads the source and drops quizzes that cannot drive a
// session, such as a question without exactly four options.
func (s *QuizService) playableQuizzes(ctx context.Context) ([]model.Quiz, error) {
	quizzes, err := s.source.ListQuizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	playable := make([]model.Quiz, 0, len(quizzes))
	for i := range quizzes {
		if err := quiz.Validate(&quizzes[i]); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", quizzes[i].ID).Msg("Skipping invalid quiz")
			continue
		}
		playable = append(playable, quizzes[i])
	}
	return playable, nil
}

func summarize(quizzes []model.Quiz) []model.QuizSummary {
	summaries := make([]model.QuizSummary, 0, len(quizzes))
	for i := range quizzes {
		summaries = append(summaries, quizzes[i].Summary())
	}
	return summaries
}

func (s *QuizService) cacheQuizzes(ctx context.Context, quizzes []model.Quiz) error {
	pipe := s.rdb.Pipeline()
	for i := range quizzes {
		payload, err := json.Marshal(&quizzes[i])
		if err != nil {
			return fmt.Errorf("marshal quiz %s: %w", quizzes[i].ID, err)
		}
		pipe.Set(ctx, config.CacheKey.QuizPayloadKey(quizzes[i].ID), payload, s.ttl)
	}
	index, err := json.Marshal(summarize(quizzes))
	if err != nil {
		return fmt.Errorf("marshal quiz index: %w", err)
	}
	pipe.Set(ctx, config.CacheKey.QuizIndexKey(), index, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}
	return nil
}

// refillCache rewrites the quiz cache after a miss. Failures only cost
// another trip to the source.
func (s *QuizService) refillCache(ctx context.Context, quizzes []model.Quiz) {
	if s.rdb == nil {
		return
	}
	if err := s.cacheQuizzes(ctx, quizzes); err != nil {
		s.log.Warn().Err(err).Msg("Quiz cache write failed")
	}
}

func (s *QuizService) loadQuiz(ctx context.Context, quizID string) (*model.Quiz, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quizID)).Bytes()
		switch {
		case err == nil:
			var q model.Quiz
			if jsonErr := json.Unmarshal(raw, &q); jsonErr == nil && quiz.Validate(&q) == nil {
				return &q, nil
			}
			s.log.Warn().Str("quiz_id", quizID).Msg("Unusable quiz cache entry, reloading")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Str("quiz_id", quizID).Msg("Quiz cache read failed")
		}
	}

	quizzes, err := s.playableQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	s.refillCache(ctx, quizzes)
	for i := range quizzes {
		if quizzes[i].ID == quizID {
			return &quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

// StartSession begins a fresh attempt at the first question.
func (s *QuizService) StartSession(ctx context.Context, quizID string) (*SessionView, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	entry := &quizSession{quiz: q, state: quiz.NewSession(), updatedAt: s.now()}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	s.log.Debug().Str("session_id", id.String()).Str("quiz_id", quizID).Msg("Quiz session started")
	return buildView(id, entry), nil
}

// GetSession returns the current snapshot of a session.
func (s *QuizService) GetSession(id uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return buildView(id, entry), nil
}

// Select records the learner's choice for the current question.
func (s *QuizService) Select(id uuid.UUID, option int) (*SessionView, error) {
	return s.transition(id, func(q *model.Quiz, cur quiz.Session) (quiz.Session, error) {
		return cur.Select(q, option)
	})
}

// Submit reveals the answer to the current question.
func (s *QuizService) Submit(id uuid.UUID) (*SessionView, error) {
	return s.transition(id, func(q *model.Quiz, cur quiz.Session) (quiz.Session, error) {
		return cur.Submit(q)
	})
}

// Advance moves to the next question or completes the quiz.
func (s *QuizService) Advance(id uuid.UUID) (*SessionView, error) {
	return s.transition(id, func(q *model.Quiz, cur quiz.Session) (quiz.Session, error) {
		return cur.Advance(q)
	})
}

// Restart resets the session to the first question with a zero score.
func (s *QuizService) Restart(id uuid.UUID) (*SessionView, error) {
	return s.transition(id, func(_ *model.Quiz, cur quiz.Session) (quiz.Session, error) {
		return cur.Restart(), nil
	})
}

// Discard ends a session.
func (s *QuizService) Discard(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// SweepIdle drops sessions untouched since cutoff. Implements worker.IdleSweeper.
func (s *QuizService) SweepIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if entry.updatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// ActiveSessions returns the number of live sessions.
func (s *QuizService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CompletionStats returns how many attempts completed since startup and
// the sum of their percentages.
func (s *QuizService) CompletionStats() (completed, percentageSum int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed, s.percentageSum
}

func (s *QuizService) transition(id uuid.UUID, step func(*model.Quiz, quiz.Session) (quiz.Session, error)) (*SessionView, error) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	next, err := step(entry.quiz, entry.state)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	justCompleted := !entry.state.Complete && next.Complete
	entry.state = next
	entry.updatedAt = s.now()

	var completedEvt *event.Event
	if justCompleted {
		total := len(entry.quiz.Questions)
		pct := quiz.Percentage(next.Score, total)
		s.completed++
		s.percentageSum += pct
		completedEvt = &event.Event{
			Type: config.EventKey.QuizCompleted,
			Payload: event.QuizCompletedPayload{
				SessionID:  id.String(),
				QuizID:     entry.quiz.ID,
				Score:      next.Score,
				Total:      total,
				Percentage: pct,
			},
			OccurredAt: entry.updatedAt,
		}
	}
	view := buildView(id, entry)
	s.mu.Unlock()

	if completedEvt != nil {
		s.events.Enqueue(*completedEvt)
		s.log.Info().
			Str("session_id", id.String()).
			Str("quiz_id", view.QuizID).
			Int("score", view.Score).
			Int("total", view.TotalQuestions).
			Msg("Quiz completed")
	}
	return view, nil
}

func buildView(id uuid.UUID, entry *quizSession) *SessionView {
	q := entry.quiz
	st := entry.state
	total := len(q.Questions)

	view := &SessionView{
		ID:             id,
		QuizID:         q.ID,
		Title:          q.Title,
		State:          st.State(),
		QuestionNumber: st.Index + 1,
		TotalQuestions: total,
		Progress:       quiz.Progress(st.Index, total),
		Score:          st.Score,
		Answered:       st.Answered(),
	}
	if st.Selected != nil {
		sel := *st.Selected
		view.SelectedOption = &sel
	}

	if st.Complete {
		view.Result = &Result{
			Score:      st.Score,
			Total:      total,
			Incorrect:  total - st.Score,
			Percentage: quiz.Percentage(st.Score, total),
		}
		return view
	}

	cur := q.Questions[st.Index]
	options := make([]string, len(cur.Options))
	copy(options, cur.Options)
	view.Question = &model.QuestionForLearner{
		ID:      cur.ID,
		Prompt:  cur.Prompt,
		Options: options,
	}
	if st.Revealed {
		view.Reveal = &Reveal{
			CorrectOption: cur.CorrectOption,
			Correct:       st.LastCorrect(q),
			Explanation:   cur.Explanation,
		}
	}
	return view
}
