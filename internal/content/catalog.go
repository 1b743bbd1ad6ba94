package content

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/quiz"
	"gopkg.in/yaml.v3"
)

// Assistant holds the conversation texts.
type Assistant struct {
	Greeting string `yaml:"greeting"`
	Reply    string `yaml:"reply"`
}

// Catalog is the static application content: books, reader excerpts,
// quizzes and dashboard copy. It is loaded once and never modified.
type Catalog struct {
	Books     []model.Book          `yaml:"books"`
	Excerpts  []model.BookExcerpt   `yaml:"excerpts"`
	Quizzes   []model.Quiz          `yaml:"quizzes"`
	Stats     model.ReadingStats    `yaml:"stats"`
	Features  []model.FeatureStatus `yaml:"features"`
	Assistant Assistant             `yaml:"assistant"`
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks referential integrity and every quiz.
func (c *Catalog) Validate() error {
	books := make(map[int]struct{}, len(c.Books))
	for _, b := range c.Books {
		if _, dup := books[b.ID]; dup {
			return fmt.Errorf("duplicate book id %d", b.ID)
		}
		if strings.TrimSpace(b.Title) == "" {
			return fmt.Errorf("book %d has no title", b.ID)
		}
		if b.Progress < 0 || b.Progress > 100 {
			return fmt.Errorf("book %d progress %d out of range", b.ID, b.Progress)
		}
		switch b.Format {
		case model.BookFormatEPUB, model.BookFormatPDF, model.BookFormatDOCX, model.BookFormatTXT:
		default:
			return fmt.Errorf("book %d has unknown format %q", b.ID, b.Format)
		}
		books[b.ID] = struct{}{}
	}

	for _, e := range c.Excerpts {
		if _, ok := books[e.BookID]; !ok {
			return fmt.Errorf("excerpt references unknown book %d", e.BookID)
		}
	}

	quizzes := make(map[string]struct{}, len(c.Quizzes))
	for i := range c.Quizzes {
		q := &c.Quizzes[i]
		if _, dup := quizzes[q.ID]; dup {
			return fmt.Errorf("duplicate quiz id %q", q.ID)
		}
		quizzes[q.ID] = struct{}{}
		if _, ok := books[q.BookID]; !ok {
			return fmt.Errorf("quiz %s references unknown book %d", q.ID, q.BookID)
		}
		if err := quiz.Validate(q); err != nil {
			return err
		}
	}
	return nil
}

// ListBooks implements service.BookSource.
func (c *Catalog) ListBooks(_ context.Context) ([]model.Book, error) {
	out := make([]model.Book, len(c.Books))
	copy(out, c.Books)
	return out, nil
}

// ListExcerpts implements service.BookSource.
func (c *Catalog) ListExcerpts(_ context.Context) ([]model.BookExcerpt, error) {
	out := make([]model.BookExcerpt, len(c.Excerpts))
	copy(out, c.Excerpts)
	return out, nil
}

// ListQuizzes implements service.QuizSource.
func (c *Catalog) ListQuizzes(_ context.Context) ([]model.Quiz, error) {
	out := make([]model.Quiz, len(c.Quizzes))
	copy(out, c.Quizzes)
	return out, nil
}
