package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/chat"
	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/content"
	"github.com/stemsi/folio-backend/internal/database"
	"github.com/stemsi/folio-backend/internal/event"
	"github.com/stemsi/folio-backend/internal/handler"
	"github.com/stemsi/folio-backend/internal/logger"
	"github.com/stemsi/folio-backend/internal/middleware"
	"github.com/stemsi/folio-backend/internal/repository"
	"github.com/stemsi/folio-backend/internal/router"
	"github.com/stemsi/folio-backend/internal/service"
	"github.com/stemsi/folio-backend/internal/validator"
	"github.com/stemsi/folio-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Folio Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Content Catalog ──────────────────────────────────────────
	catalog, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ContentPath).Msg("Failed to load content catalog")
	}
	log.Info().
		Int("books", len(catalog.Books)).
		Int("quizzes", len(catalog.Quizzes)).
		Msg("Content catalog loaded")

	var books service.BookSource = catalog
	var quizzes service.QuizSource = catalog

	// ─── Connect to PostgreSQL (optional) ──────────────────────────────
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		books = repository.NewBookRepository(pool)
		quizzes = repository.NewQuestionRepository(pool)
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	}

	// ─── Event Publisher ───────────────────────────────────────────────
	var publisher event.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := event.NewAMQPPublisher(cfg.AMQPURL, cfg.EventExchange, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		publisher = amqpPublisher
	} else {
		publisher = event.NewLogPublisher(log)
	}
	defer publisher.Close()

	eventWorker := worker.NewEventWorker(publisher, log)

	// ─── Initialize Services ──────────────────────────────────────────
	libraryService := service.NewLibraryService(books, rdb, cfg.CacheTTL, log)
	quizService := service.NewQuizService(quizzes, rdb, cfg.CacheTTL, eventWorker, log)
	conversationService := service.NewConversationService(service.ConversationSettings{
		Delay:     cfg.ReplyDelay,
		Greeting:  catalog.Assistant.Greeting,
		Reply:     catalog.Assistant.Reply,
		Scheduler: chat.TimerScheduler{},
	}, eventWorker, log)
	dashboardService := service.NewDashboardService(libraryService, quizService, catalog.Stats, catalog.Features)
	readerService := service.NewReaderService(libraryService)
	preferencesService := service.NewPreferencesService()

	// ─── Initialize Handlers ──────────────────────────────────────────
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute, time.Minute)

	handlers := &router.Handlers{
		Library:      handler.NewLibraryHandler(libraryService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Reader:       handler.NewReaderHandler(readerService),
		Preferences:  handler.NewPreferencesHandler(preferencesService),
		Quiz:         handler.NewQuizHandler(quizService),
		Conversation: handler.NewConversationHandler(conversationService),
		WS:           handler.NewWSHandler(conversationService, chatLimiter, log, cfg.AllowedOrigins),
		System:       handler.NewSystemHandler(pool, rdb, quizService, conversationService, eventWorker, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	sweeper := worker.NewSessionSweeper(cfg.SessionTTL, map[string]worker.IdleSweeper{
		"quiz_sessions": quizService,
		"conversations": conversationService,
	}, log)

	for _, start := range []func(context.Context){eventWorker.Start, sweeper.Start, chatLimiter.Start} {
		wg.Add(1)
		go func(start func(context.Context)) {
			defer wg.Done()
			start(workerCtx)
		}(start)
	}

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the catalog into Redis BEFORE accepting traffic.
	if err := libraryService.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Library cache prewarm failed")
	}
	if err := quizService.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Quiz cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, chatLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Cancel pending replies and end open streams.
	conversationService.CloseAll()

	// 3. Stop background workers and wait for the event queue to drain.
	workerCancel()
	wg.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
