package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/folio-backend/internal/model"
)

// QuestionRepository reads quizzes and their ordered questions.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListQuizzes retrieves every quiz with its questions ordered by order_num.
func (r *QuestionRepository) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, book_id, title FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, err
	}

	var quizzes []model.Quiz
	index := make(map[string]int)
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.BookID, &q.Title); err != nil {
			rows.Close()
			return nil, err
		}
		index[q.ID] = len(quizzes)
		quizzes = append(quizzes, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	qrows, err := r.pool.Query(ctx,
		`SELECT quiz_id, id, prompt, options, correct_option, explanation
		 FROM quiz_questions
		 ORDER BY quiz_id, order_num`,
	)
	if err != nil {
		return nil, err
	}
	defer qrows.Close()

	for qrows.Next() {
		var (
			quizID  string
			rawOpts []byte
			q       model.Question
		)
		if err := qrows.Scan(&quizID, &q.ID, &q.Prompt, &rawOpts, &q.CorrectOption, &q.Explanation); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawOpts, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s/%d: %w", quizID, q.ID, err)
		}
		i, ok := index[quizID]
		if !ok {
			continue
		}
		quizzes[i].Questions = append(quizzes[i].Questions, q)
	}
	return quizzes, qrows.Err()
}

// ReplaceQuiz writes a quiz and replaces all of its questions in one transaction.
func (r *QuestionRepository) ReplaceQuiz(ctx context.Context, q *model.Quiz) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO quizzes (id, book_id, title) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET book_id = EXCLUDED.book_id, title = EXCLUDED.title`,
			q.ID, q.BookID, q.Title,
		); err != nil {
			return fmt.Errorf("upsert quiz: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, q.ID); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}

		batch := &pgx.Batch{}
		for i, question := range q.Questions {
			opts, err := json.Marshal(question.Options)
			if err != nil {
				return fmt.Errorf("encode options: %w", err)
			}
			batch.Queue(
				`INSERT INTO quiz_questions (quiz_id, id, order_num, prompt, options, correct_option, explanation)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				q.ID, question.ID, i, question.Prompt, opts, question.CorrectOption, question.Explanation,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
