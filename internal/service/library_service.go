package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/model"
)

// CategoryAll is the pseudo-category that disables filtering.
const CategoryAll = "All"

// LibraryService serves the book catalog, reading through Redis when a
// client is configured.
type LibraryService struct {
	source BookSource
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLibraryService creates a new LibraryService. rdb may be nil.
func NewLibraryService(source BookSource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *LibraryService {
	return &LibraryService{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.With().Str("component", "library_service").Logger(),
	}
}

// List returns books whose title or author contains query.Search
// (case-insensitive), restricted to query.Category unless it is empty or "All".
func (s *LibraryService) List(ctx context.Context, query model.LibraryQuery) ([]model.Book, error) {
	books, err := s.books(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.TrimSpace(query.Category)
	if strings.EqualFold(category, CategoryAll) {
		category = ""
	}

	out := make([]model.Book, 0, len(books))
	for _, b := range books {
		if category != "" && !strings.EqualFold(b.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Title), search) &&
			!strings.Contains(strings.ToLower(b.Author), search) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Categories returns "All" followed by each distinct category in catalog order.
func (s *LibraryService) Categories(ctx context.Context) ([]string, error) {
	books, err := s.books(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{CategoryAll}
	for _, b := range books {
		if b.Category == "" {
			continue
		}
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		categories = append(categories, b.Category)
	}
	return categories, nil
}

// Get returns a single book.
func (s *LibraryService) Get(ctx context.Context, id int) (*model.Book, error) {
	books, err := s.books(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID == id {
			return &books[i], nil
		}
	}
	return nil, ErrBookNotFound
}

// Recent returns up to n books that have been started, in catalog order.
func (s *LibraryService) Recent(ctx context.Context, n int) ([]model.Book, error) {
	books, err := s.books(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Book, 0, n)
	for _, b := range books {
		if len(out) == n {
			break
		}
		if b.Progress > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

// ReaderView returns a book together with its reader excerpt. Books without
// an excerpt open on page 1 with no text.
func (s *LibraryService) ReaderView(ctx context.Context, id int) (*model.ReaderView, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &model.ReaderView{
		Book:       *book,
		Page:       1,
		TotalPages: book.Pages,
	}

	excerpts, err := s.source.ListExcerpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list excerpts: %w", err)
	}
	for _, e := range excerpts {
		if e.BookID == id {
			view.Chapter = e.Chapter
			view.Page = e.CurrentPage
			view.Text = e.Text
			break
		}
	}
	return view, nil
}

// WarmCache loads the catalog into Redis. No-op without a Redis client.
func (s *LibraryService) WarmCache(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	books, err := s.source.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	if err := s.cacheBooks(ctx, books); err != nil {
		return err
	}
	s.log.Debug().Int("books", len(books)).Msg("Library cache warmed")
	return nil
}

func (s *LibraryService) books(ctx context.Context) ([]model.Book, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.LibraryBooksKey()).Bytes()
		switch {
		case err == nil:
			var books []model.Book
			if jsonErr := json.Unmarshal(raw, &books); jsonErr == nil {
				return books, nil
			}
			s.log.Warn().Msg("Corrupt library cache entry, reloading")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Msg("Library cache read failed")
		}
	}

	books, err := s.source.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if s.rdb != nil {
		if err := s.cacheBooks(ctx, books); err != nil {
			s.log.Warn().Err(err).Msg("Library cache write failed")
		}
	}
	return books, nil
}

func (s *LibraryService) cacheBooks(ctx context.Context, books []model.Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("marshal books: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.LibraryBooksKey(), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}
	return nil
}
