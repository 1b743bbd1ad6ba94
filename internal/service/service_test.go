package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/chat"
	"github.com/stemsi/folio-backend/internal/config"
	"github.com/stemsi/folio-backend/internal/event"
	"github.com/stemsi/folio-backend/internal/model"
	"github.com/stemsi/folio-backend/internal/quiz"
	"github.com/stemsi/folio-backend/internal/reader"
)

type stubSource struct {
	books    []model.Book
	excerpts []model.BookExcerpt
	quizzes  []model.Quiz
}

func (s *stubSource) ListBooks(context.Context) ([]model.Book, error) {
	return append([]model.Book(nil), s.books...), nil
}

func (s *stubSource) ListExcerpts(context.Context) ([]model.BookExcerpt, error) {
	return append([]model.BookExcerpt(nil), s.excerpts...), nil
}

func (s *stubSource) ListQuizzes(context.Context) ([]model.Quiz, error) {
	return append([]model.Quiz(nil), s.quizzes...), nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingSink) Enqueue(evt event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newStubSource() *stubSource {
	return &stubSource{
		books: []model.Book{
			{ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Category: "Fiction", Format: model.BookFormatEPUB, Progress: 65, Pages: 180},
			{ID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", Category: "Fiction", Format: model.BookFormatPDF, Progress: 30, Pages: 281},
			{ID: 3, Title: "Sapiens", Author: "Yuval Noah Harari", Category: "History", Format: model.BookFormatEPUB, Progress: 0, Pages: 443},
			{ID: 4, Title: "Atomic Habits", Author: "James Clear", Category: "Self-Help", Format: model.BookFormatTXT, Progress: 90, Pages: 320},
			{ID: 5, Title: "Cosmos", Author: "Carl Sagan", Category: "Science", Format: model.BookFormatDOCX, Progress: 12, Pages: 396},
		},
		excerpts: []model.BookExcerpt{
			{BookID: 1, Chapter: "Chapter 3", CurrentPage: 45, Text: "There was music from my neighbor's house"},
		},
		quizzes: []model.Quiz{{
			ID:     "gatsby",
			BookID: 1,
			Title:  "The Great Gatsby",
			Questions: []model.Question{
				{ID: 1, Prompt: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1, Explanation: "E1"},
				{ID: 2, Prompt: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1, Explanation: "E2"},
				{ID: 3, Prompt: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2, Explanation: "E3"},
			},
		}},
	}
}

func TestLibraryList(t *testing.T) {
	svc := NewLibraryService(newStubSource(), nil, 0, zerolog.Nop())
	ctx := context.Background()

	testCases := []struct {
		name  string
		query model.LibraryQuery
		want  []int
	}{
		{"everything", model.LibraryQuery{}, []int{1, 2, 3, 4, 5}},
		{"title search ignores case", model.LibraryQuery{Search: "gATSby"}, []int{1}},
		{"author search", model.LibraryQuery{Search: "sagan"}, []int{5}},
		{"category", model.LibraryQuery{Category: "fiction"}, []int{1, 2}},
		{"all category", model.LibraryQuery{Category: "All"}, []int{1, 2, 3, 4, 5}},
		{"category and search", model.LibraryQuery{Category: "Fiction", Search: "lee"}, []int{2}},
		{"no match", model.LibraryQuery{Search: "dune"}, []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			books, err := svc.List(ctx, tc.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(books) != len(tc.want) {
				t.Fatalf("expected %d books, got %d", len(tc.want), len(books))
			}
			for i, b := range books {
				if b.ID != tc.want[i] {
					t.Errorf("position %d: expected book %d, got %d", i, tc.want[i], b.ID)
				}
			}
		})
	}
}

func TestLibraryCategoriesAndLookup(t *testing.T) {
	svc := NewLibraryService(newStubSource(), nil, 0, zerolog.Nop())
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"All", "Fiction", "History", "Self-Help", "Science"}
	if len(cats) != len(want) {
		t.Fatalf("expected %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("expected %v, got %v", want, cats)
			break
		}
	}

	if _, err := svc.Get(ctx, 99); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}

	recent, _ := svc.Recent(ctx, 3)
	if len(recent) != 3 || recent[0].ID != 1 || recent[1].ID != 2 || recent[2].ID != 4 {
		t.Errorf("unexpected recent books: %+v", recent)
	}
}

func TestReaderView(t *testing.T) {
	library := NewLibraryService(newStubSource(), nil, 0, zerolog.Nop())
	svc := NewReaderService(library)
	ctx := context.Background()

	view, err := svc.Open(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Chapter != "Chapter 3" || view.Page != 45 || view.TotalPages != 180 {
		t.Errorf("unexpected view: %+v", view)
	}

	bare, err := svc.Open(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if bare.Page != 1 || bare.Text != "" {
		t.Errorf("book without excerpt should open on page 1: %+v", bare)
	}

	got, err := svc.ApplyCommand(ReaderCommandRequest{Settings: svc.DefaultSettings(), Command: reader.CommandFontLarger})
	if err != nil {
		t.Fatal(err)
	}
	if got.FontSize != reader.DefaultFontSize+reader.FontSizeStep {
		t.Errorf("expected font size %d, got %d", reader.DefaultFontSize+reader.FontSizeStep, got.FontSize)
	}
}

func TestQuizSessionFlow(t *testing.T) {
	sink := &recordingSink{}
	svc := NewQuizService(newStubSource(), nil, 0, sink, zerolog.Nop())
	ctx := context.Background()

	view, err := svc.StartSession(ctx, "gatsby")
	if err != nil {
		t.Fatal(err)
	}
	if view.State != quiz.StateAnswering || view.QuestionNumber != 1 || view.Progress != 33 {
		t.Errorf("unexpected start view: %+v", view)
	}
	if view.Reveal != nil {
		t.Error("answer must be hidden before submit")
	}

	// 1 correct, 1 correct, wrong.
	for i, choice := range []int{1, 1, 0} {
		if _, err := svc.Select(view.ID, choice); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		revealed, err := svc.Submit(view.ID)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if revealed.Reveal == nil || revealed.Reveal.Explanation == "" {
			t.Fatalf("submit %d should reveal the answer", i)
		}
		if _, err := svc.Advance(view.ID); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}

	done, err := svc.GetSession(view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.State != quiz.StateComplete || done.Result == nil {
		t.Fatalf("expected completed session, got %+v", done)
	}
	if done.Result.Score != 2 || done.Result.Incorrect != 1 || done.Result.Percentage != 67 {
		t.Errorf("unexpected result: %+v", done.Result)
	}
	if done.Question != nil {
		t.Error("completed session must not expose a question")
	}

	if types := sink.types(); len(types) != 1 || types[0] != config.EventKey.QuizCompleted {
		t.Errorf("expected one quiz.completed event, got %v", types)
	}
	if completed, sum := svc.CompletionStats(); completed != 1 || sum != 67 {
		t.Errorf("unexpected completion stats: %d/%d", completed, sum)
	}

	if _, err := svc.Advance(view.ID); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after completion, got %v", err)
	}

	restarted, err := svc.Restart(view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if restarted.Score != 0 || restarted.QuestionNumber != 1 || restarted.State != quiz.StateAnswering {
		t.Errorf("unexpected restart view: %+v", restarted)
	}
}

func TestQuizSessionErrors(t *testing.T) {
	svc := NewQuizService(newStubSource(), nil, 0, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.StartSession(ctx, "missing"); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("expected ErrQuizNotFound, got %v", err)
	}
	if _, err := svc.GetSession(uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	view, _ := svc.StartSession(ctx, "gatsby")
	if _, err := svc.Submit(view.ID); !errors.Is(err, quiz.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
	if _, err := svc.Select(view.ID, 4); !errors.Is(err, quiz.ErrOptionOutOfRange) {
		t.Errorf("expected ErrOptionOutOfRange, got %v", err)
	}
	if _, err := svc.Advance(view.ID); !errors.Is(err, quiz.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	unchanged, _ := svc.GetSession(view.ID)
	if unchanged.SelectedOption != nil || unchanged.State != quiz.StateAnswering {
		t.Errorf("rejected operations must not change the session: %+v", unchanged)
	}

	if err := svc.Discard(view.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Discard(view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on second discard, got %v", err)
	}
}

func TestQuizSourceWithMalformedQuestion(t *testing.T) {
	src := newStubSource()
	src.quizzes = append(src.quizzes, model.Quiz{
		ID:     "broken",
		BookID: 1,
		Title:  "Broken",
		Questions: []model.Question{
			{ID: 1, Prompt: "Q1", Options: []string{}, CorrectOption: 3},
		},
	})
	svc := NewQuizService(src, nil, 0, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.StartSession(ctx, "broken"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound for an unplayable quiz, got %v", err)
	}
	if n := svc.ActiveSessions(); n != 0 {
		t.Errorf("no session may be created for an unplayable quiz, got %d", n)
	}

	summaries, err := svc.ListQuizzes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].ID != "gatsby" {
		t.Errorf("only playable quizzes should be listed, got %+v", summaries)
	}

	if _, err := svc.StartSession(ctx, "gatsby"); err != nil {
		t.Errorf("valid quiz must still start: %v", err)
	}
}

func TestQuizCacheRefillsAfterExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewQuizService(newStubSource(), rdb, time.Minute, nil, zerolog.Nop())
	ctx := context.Background()

	if err := svc.WarmCache(ctx); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(config.CacheKey.QuizIndexKey()) || !mr.Exists(config.CacheKey.QuizPayloadKey("gatsby")) {
		t.Fatal("warm must write index and payload")
	}

	mr.FastForward(2 * time.Minute)
	if mr.Exists(config.CacheKey.QuizIndexKey()) {
		t.Fatal("index should have expired")
	}

	summaries, err := svc.ListQuizzes(ctx)
	if err != nil || len(summaries) != 1 {
		t.Fatalf("list after expiry: %v %+v", err, summaries)
	}
	if !mr.Exists(config.CacheKey.QuizIndexKey()) {
		t.Error("a miss on the index must refill it")
	}

	mr.FastForward(2 * time.Minute)
	if _, err := svc.StartSession(ctx, "gatsby"); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(config.CacheKey.QuizPayloadKey("gatsby")) {
		t.Error("a miss on the payload must refill it")
	}
	if ttl := mr.TTL(config.CacheKey.QuizPayloadKey("gatsby")); ttl <= 0 || ttl > time.Minute {
		t.Errorf("refilled entry must carry the configured TTL, got %s", ttl)
	}
}

func TestQuizSweepIdle(t *testing.T) {
	svc := NewQuizService(newStubSource(), nil, 0, nil, zerolog.Nop())
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	stale, _ := svc.StartSession(context.Background(), "gatsby")
	svc.now = func() time.Time { return start.Add(time.Hour) }
	fresh, _ := svc.StartSession(context.Background(), "gatsby")

	if removed := svc.SweepIdle(start.Add(30 * time.Minute)); removed != 1 {
		t.Fatalf("expected 1 session swept, got %d", removed)
	}
	if _, err := svc.GetSession(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("stale session should be gone")
	}
	if _, err := svc.GetSession(fresh.ID); err != nil {
		t.Error("fresh session should survive")
	}
}

type manualScheduler struct {
	mu  sync.Mutex
	fns []func()
}

type noopHandle struct{}

func (noopHandle) Stop() bool { return true }

func (s *manualScheduler) AfterFunc(_ time.Duration, fn func()) chat.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
	return noopHandle{}
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func TestConversationService(t *testing.T) {
	sched := &manualScheduler{}
	sink := &recordingSink{}
	svc := NewConversationService(ConversationSettings{
		Greeting:  "hi there",
		Reply:     "canned",
		Scheduler: sched,
	}, sink, zerolog.Nop())

	view := svc.Create()
	if len(view.Messages) != 1 || view.Messages[0].Content != "hi there" {
		t.Fatalf("unexpected greeting: %+v", view.Messages)
	}

	if _, err := svc.Post(view.ID, "   "); !errors.Is(err, chat.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Post(view.ID, "Who is Nick?"); err != nil {
		t.Fatal(err)
	}

	typing, _ := svc.View(view.ID)
	if !typing.Typing || typing.Pending != 1 || len(typing.Messages) != 2 {
		t.Errorf("expected typing with one pending reply: %+v", typing)
	}

	sched.fire()

	after, _ := svc.View(view.ID)
	if after.Typing || len(after.Messages) != 3 || after.Messages[2].Content != "canned" {
		t.Errorf("unexpected log after reply: %+v", after)
	}
	if got := sink.types(); len(got) != 2 {
		t.Errorf("expected 2 message events, got %v", got)
	}

	if err := svc.Close(view.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Post(view.ID, "still there?"); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationSweepSkipsPendingReplies(t *testing.T) {
	sched := &manualScheduler{}
	svc := NewConversationService(ConversationSettings{Scheduler: sched}, nil, zerolog.Nop())

	idle := svc.Create()
	busy := svc.Create()
	if _, err := svc.Post(busy.ID, "waiting"); err != nil {
		t.Fatal(err)
	}

	removed := svc.SweepIdle(time.Now().Add(time.Hour))
	if removed != 1 {
		t.Fatalf("expected 1 conversation swept, got %d", removed)
	}
	if _, err := svc.Get(idle.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Error("idle conversation should be closed")
	}
	if _, err := svc.Get(busy.ID); err != nil {
		t.Error("conversation awaiting a reply must survive the sweep")
	}
}

type fixedCounter struct{ completed, sum int }

func (f fixedCounter) CompletionStats() (int, int) { return f.completed, f.sum }

func TestDashboard(t *testing.T) {
	library := NewLibraryService(newStubSource(), nil, 0, zerolog.Nop())
	baseline := model.ReadingStats{BooksRead: 24, QuizzesCompleted: 18, QuizAccuracy: 92}
	features := []model.FeatureStatus{{Key: "voice", Title: "Voice Control"}}

	idle := NewDashboardService(library, fixedCounter{}, baseline, features)
	d, err := idle.GetDashboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.Stats != baseline {
		t.Errorf("stats should equal baseline without live completions: %+v", d.Stats)
	}
	if len(d.RecentBooks) != RecentBooksLimit || len(d.Features) != 1 {
		t.Errorf("unexpected dashboard: %+v", d)
	}

	// 18 at 92% plus 2 at 50% each: (1656 + 100) / 20 = 87.8.
	live := NewDashboardService(library, fixedCounter{completed: 2, sum: 100}, baseline, features)
	d, _ = live.GetDashboard(context.Background())
	if d.Stats.QuizzesCompleted != 20 || d.Stats.QuizAccuracy != 88 {
		t.Errorf("unexpected live stats: %+v", d.Stats)
	}
}
