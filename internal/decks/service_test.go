package decks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/finance"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/market"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/queue"
	local "github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/storage/object/local"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/templates"
)

type stubGenerator struct {
	err error
}

func (g stubGenerator) Generate(ctx context.Context, input llm.GenerateInput) (json.RawMessage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return json.RawMessage(`{}`), nil
}

type stubQueue struct {
	messages []queue.Message
	err      error
}

func (s *stubQueue) Send(ctx context.Context, msg queue.Message) error {
	_ = ctx
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func setupService(t *testing.T, gen llm.Generator) (*Service, *MemoryRepo, *startups.MemoryRepo, *stubQueue) {
	t.Helper()
	deckRepo := NewMemoryRepo()
	startupRepo := startups.NewMemoryRepo()
	queueStub := &stubQueue{}

	svc := &Service{
		Repo:        deckRepo,
		StartupRepo: startupRepo,
		Store:       local.New(t.TempDir()),
		Generator:   gen,
		Templates:   templates.NewCatalog(),
		Finance:     finance.NewEngine(func() finance.Source { return finance.ZeroSource{} }),
		Market:      market.NewCalculator(0, 0),
		JobQueue:    queueStub,
		Concurrency: 2,
	}
	return svc, deckRepo, startupRepo, queueStub
}

func seedStartup(t *testing.T, repo *startups.MemoryRepo, userID string) string {
	t.Helper()
	profile := startups.Profile{
		ID:             "startup-1",
		UserID:         userID,
		Name:           "CloudMetrics",
		Industry:       startups.IndustrySaaS,
		FundingStage:   startups.StageSeed,
		RevenueModel:   "subscription",
		TeamSize:       8,
		CustomerCount:  40,
		CurrentRevenue: 25000,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), profile); err != nil {
		t.Fatalf("create startup: %v", err)
	}
	return profile.ID
}

func TestStartOrReuseCreatesThenReuses(t *testing.T) {
	svc, _, startupRepo, queueStub := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)

	first, created, err := svc.StartOrReuse(context.Background(), startupID, userID, "", nil, false)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create")
	}
	if first.Status != StatusQueued {
		t.Fatalf("expected queued, got %s", first.Status)
	}
	if len(queueStub.messages) != 1 || queueStub.messages[0].DeckID != first.ID {
		t.Fatalf("expected one queued message for %s, got %+v", first.ID, queueStub.messages)
	}

	second, created, err := svc.StartOrReuse(context.Background(), startupID, userID, "", nil, false)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if created {
		t.Fatalf("expected second call to reuse")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same deck, got %s and %s", first.ID, second.ID)
	}
	if len(queueStub.messages) != 1 {
		t.Fatalf("reuse must not enqueue again, got %d messages", len(queueStub.messages))
	}
}

func TestStartOrReuseFailedDeckRequiresRetryFlag(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)

	failed := PitchDeck{
		ID:        "deck-failed",
		StartupID: startupID,
		UserID:    userID,
		Status:    StatusFailed,
		CreatedAt: time.Now().UTC(),
	}
	if err := deckRepo.Create(context.Background(), failed); err != nil {
		t.Fatalf("seed failed deck: %v", err)
	}

	if _, _, err := svc.StartOrReuse(context.Background(), startupID, userID, "", nil, false); !errors.Is(err, ErrRetryRequired) {
		t.Fatalf("expected ErrRetryRequired, got %v", err)
	}

	fresh, created, err := svc.StartOrReuse(context.Background(), startupID, userID, "", nil, true)
	if err != nil {
		t.Fatalf("retry start: %v", err)
	}
	if !created || fresh.ID == failed.ID {
		t.Fatalf("expected a fresh deck on retry, got created=%v id=%s", created, fresh.ID)
	}
}

func TestProcessDeckCompletes(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)

	d := PitchDeck{
		ID:        "deck-1",
		StartupID: startupID,
		UserID:    userID,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := deckRepo.Create(context.Background(), d); err != nil {
		t.Fatalf("create deck: %v", err)
	}

	if err := svc.ProcessDeck(context.Background(), d.ID); err != nil {
		t.Fatalf("process deck: %v", err)
	}

	got, err := deckRepo.GetByID(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (code=%s msg=%v)", got.Status, got.ErrorCode, got.ErrorMessage)
	}
	if got.Result == nil {
		t.Fatalf("expected result document")
	}
	if count, ok := got.Result["slideCount"].(int); !ok || count != 10 {
		t.Fatalf("expected 10 slides in result, got %v", got.Result["slideCount"])
	}
	for _, key := range []string{"slides", "financialModel", "marketSizing", "template"} {
		if _, ok := got.Result[key]; !ok {
			t.Fatalf("result missing %s", key)
		}
	}
	if got.SnapshotKey == "" {
		t.Fatalf("expected snapshot key to be recorded")
	}
	if got.CompletedAt == nil {
		t.Fatalf("expected completedAt")
	}
}

func TestProcessDeckAllSlidesFallBackStillCompletes(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{err: errors.New("provider down")})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)

	d := PitchDeck{ID: "deck-2", StartupID: startupID, UserID: userID, Status: StatusQueued, CreatedAt: time.Now().UTC()}
	if err := deckRepo.Create(context.Background(), d); err != nil {
		t.Fatalf("create deck: %v", err)
	}

	if err := svc.ProcessDeck(context.Background(), d.ID); err != nil {
		t.Fatalf("process deck: %v", err)
	}
	got, _ := deckRepo.GetByID(context.Background(), d.ID)
	if got.Status != StatusCompleted {
		t.Fatalf("slide failures must not fail the deck, got %s", got.Status)
	}
}

func TestProcessDeckFailsWhenStartupMissing(t *testing.T) {
	svc, deckRepo, _, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"

	d := PitchDeck{ID: "deck-3", StartupID: "missing", UserID: userID, Status: StatusQueued, CreatedAt: time.Now().UTC()}
	if err := deckRepo.Create(context.Background(), d); err != nil {
		t.Fatalf("create deck: %v", err)
	}

	if err := svc.ProcessDeck(context.Background(), d.ID); err == nil {
		t.Fatalf("expected error for missing startup")
	}
	got, _ := deckRepo.GetByID(context.Background(), d.ID)
	if got.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if got.ErrorCode != ErrorCodeStorage {
		t.Fatalf("expected %s, got %s", ErrorCodeStorage, got.ErrorCode)
	}
	if !got.ErrorRetryable {
		t.Fatalf("expected retryable failure")
	}
}

func TestProcessDeckUnknownTemplateFailsValidation(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)

	d := PitchDeck{ID: "deck-4", StartupID: startupID, UserID: userID, TemplateID: "gaming", Status: StatusQueued, CreatedAt: time.Now().UTC()}
	if err := deckRepo.Create(context.Background(), d); err != nil {
		t.Fatalf("create deck: %v", err)
	}

	if err := svc.ProcessDeck(context.Background(), d.ID); err == nil {
		t.Fatalf("expected error for unknown template")
	}
	got, _ := deckRepo.GetByID(context.Background(), d.ID)
	if got.ErrorCode != ErrorCodeValidation {
		t.Fatalf("expected %s, got %s", ErrorCodeValidation, got.ErrorCode)
	}
	if got.ErrorRetryable {
		t.Fatalf("template failures are not retryable")
	}
}

func TestProcessDeckCustomSlideSelection(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)

	d := PitchDeck{
		ID:         "deck-5",
		StartupID:  startupID,
		UserID:     userID,
		SlideTypes: []string{"title", "problem", "solution"},
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}
	if err := deckRepo.Create(context.Background(), d); err != nil {
		t.Fatalf("create deck: %v", err)
	}

	if err := svc.ProcessDeck(context.Background(), d.ID); err != nil {
		t.Fatalf("process deck: %v", err)
	}
	got, _ := deckRepo.GetByID(context.Background(), d.ID)
	if count, _ := got.Result["slideCount"].(int); count != 3 {
		t.Fatalf("expected 3 slides, got %v", got.Result["slideCount"])
	}
}

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantCode  string
		wantRetry bool
	}{
		{"timeout", llm.ErrTimeout, ErrorCodeLLMTimeout, true},
		{"deadline", context.DeadlineExceeded, ErrorCodeLLMTimeout, true},
		{"malformed", llm.ErrMalformedContent, ErrorCodeLLMSchemaMismatch, false},
		{"invalid input", startups.ErrInvalidInput, ErrorCodeValidation, false},
		{"template missing", errors.New("template gaming: template not found"), ErrorCodeValidation, false},
		{"startup lookup", errors.New("startup lookup id=x: boom"), ErrorCodeStorage, true},
		{"other", errors.New("boom"), ErrorCodeInternal, false},
	}
	for _, tc := range cases {
		code, retry := classifyFailure(tc.err)
		if code != tc.wantCode || retry != tc.wantRetry {
			t.Fatalf("%s: expected (%s, %v), got (%s, %v)", tc.name, tc.wantCode, tc.wantRetry, code, retry)
		}
	}
}

func TestNormalizeSlideTypes(t *testing.T) {
	if got := normalizeSlideTypes(nil); got != nil {
		t.Fatalf("nil must stay nil, got %v", got)
	}
	got := normalizeSlideTypes([]string{" Title ", "", "PROBLEM"})
	if len(got) != 2 || got[0] != "title" || got[1] != "problem" {
		t.Fatalf("unexpected normalization: %v", got)
	}
	if got := normalizeSlideTypes([]string{}); got == nil || len(got) != 0 {
		t.Fatalf("empty selection must stay empty, got %v", got)
	}
}
