package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/content"
	"github.com/stemsi/folio-backend/internal/database"
	"github.com/stemsi/folio-backend/internal/logger"
	"github.com/stemsi/folio-backend/internal/repository"
)

// seed-content copies the YAML catalog into PostgreSQL so the server can
// run with DATABASE_URL set.
func main() {
	cfg := config.Load()

	var path string
	flag.StringVar(&path, "path", cfg.ContentPath, "Path to the catalog YAML")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	catalog, err := content.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load catalog")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	bookRepo := repository.NewBookRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Printf("=== Seeding %d books ===\n", len(catalog.Books))
	for i := range catalog.Books {
		b := &catalog.Books[i]
		if err := bookRepo.Upsert(ctx, b); err != nil {
			log.Fatal().Err(err).Int("book_id", b.ID).Msg("Failed to upsert book")
		}
		fmt.Printf("  [%d] %s\n", b.ID, b.Title)
	}

	for i := range catalog.Excerpts {
		e := &catalog.Excerpts[i]
		if err := bookRepo.UpsertExcerpt(ctx, e); err != nil {
			log.Fatal().Err(err).Int("book_id", e.BookID).Msg("Failed to upsert excerpt")
		}
	}
	fmt.Printf("=== Seeded %d excerpts ===\n", len(catalog.Excerpts))

	for i := range catalog.Quizzes {
		q := &catalog.Quizzes[i]
		if err := questionRepo.ReplaceQuiz(ctx, q); err != nil {
			log.Fatal().Err(err).Str("quiz_id", q.ID).Msg("Failed to replace quiz")
		}
		fmt.Printf("  quiz %s: %d questions\n", q.ID, len(q.Questions))
	}

	fmt.Println("Seeding complete")
}
