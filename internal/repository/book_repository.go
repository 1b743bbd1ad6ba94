package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/folio-backend/internal/model"
)

// BookRepository reads the library catalog from PostgreSQL.
type BookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

// ListBooks retrieves all books ordered by id.
func (r *BookRepository) ListBooks(ctx context.Context) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, author, category, format, progress, pages, language, cover_color
		 FROM books ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Format,
			&b.Progress, &b.Pages, &b.Language, &b.CoverColor); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ListExcerpts retrieves the reader excerpt of every book that has one.
func (r *BookRepository) ListExcerpts(ctx context.Context) ([]model.BookExcerpt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT book_id, chapter, current_page, body FROM book_excerpts ORDER BY book_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var excerpts []model.BookExcerpt
	for rows.Next() {
		var e model.BookExcerpt
		if err := rows.Scan(&e.BookID, &e.Chapter, &e.CurrentPage, &e.Text); err != nil {
			return nil, err
		}
		excerpts = append(excerpts, e)
	}
	return excerpts, rows.Err()
}

// Upsert inserts or replaces a book.
func (r *BookRepository) Upsert(ctx context.Context, b *model.Book) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (id, title, author, category, format, progress, pages, language, cover_color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     title = EXCLUDED.title, author = EXCLUDED.author, category = EXCLUDED.category,
		     format = EXCLUDED.format, progress = EXCLUDED.progress, pages = EXCLUDED.pages,
		     language = EXCLUDED.language, cover_color = EXCLUDED.cover_color`,
		b.ID, b.Title, b.Author, b.Category, b.Format, b.Progress, b.Pages, b.Language, b.CoverColor,
	)
	return err
}

// UpsertExcerpt inserts or replaces a book's reader excerpt.
func (r *BookRepository) UpsertExcerpt(ctx context.Context, e *model.BookExcerpt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO book_excerpts (book_id, chapter, current_page, body)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (book_id) DO UPDATE SET
		     chapter = EXCLUDED.chapter, current_page = EXCLUDED.current_page, body = EXCLUDED.body`,
		e.BookID, e.Chapter, e.CurrentPage, e.Text,
	)
	return err
}
