package service

import (
	"context"
	"errors"

	"github.com/stemsi/folio-backend/internal/event"
	"github.com/stemsi/folio-backend/internal/model"
)

// Domain Errors
var (
	ErrBookNotFound         = errors.New("book not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrSessionNotFound      = errors.New("quiz session not found")
	ErrConversationNotFound = errors.New("conversation not found")
)

// BookSource supplies the read-only library catalog. Implemented by
// content.Catalog and repository.BookRepository.
type BookSource interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListExcerpts(ctx context.Context) ([]model.BookExcerpt, error)
}

// QuizSource supplies the fixed quizzes. Implemented by content.Catalog and
// repository.QuestionRepository.
type QuizSource interface {
	ListQuizzes(ctx context.Context) ([]model.Quiz, error)
}

// EventSink accepts domain events without blocking.
type EventSink interface {
	Enqueue(evt event.Event)
}

type discardSink struct{}

func (discardSink) Enqueue(event.Event) {}
