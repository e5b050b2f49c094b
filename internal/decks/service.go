package decks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/deck"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/finance"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/market"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/queue"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/metrics"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/storage/object"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/telemetry"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/templates"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/usage"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Service contains business logic for pitch deck generation jobs.
type Service struct {
	Repo        Repo
	Usage       *usage.Service
	StartupRepo startups.Repo
	Store       object.ObjectStore
	Generator   llm.Generator
	Templates   *templates.Catalog
	Finance     *finance.Engine
	Market      *market.Calculator
	JobQueue    queue.Client
	Concurrency int
}

// Create enqueues a new deck generation job and kicks off asynchronous completion.
func (s *Service) Create(ctx context.Context, startupID, userID, templateID string, slideTypes []string) (PitchDeck, error) {
	if startupID == "" || userID == "" {
		return PitchDeck{}, errors.New("startupID and userID are required")
	}

	if s.Usage != nil {
		ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
		if err != nil {
			return PitchDeck{}, err
		}
		if !ok {
			return PitchDeck{}, usage.ErrLimitReached
		}
	}

	d := PitchDeck{
		ID:         uuid.NewString(),
		StartupID:  startupID,
		UserID:     userID,
		TemplateID: templateID,
		SlideTypes: normalizeSlideTypes(slideTypes),
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, d); err != nil {
		return PitchDeck{}, err
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return PitchDeck{}, err
		}
	}

	s.dispatch(ctx, d.ID)

	return d, nil
}

// StartOrReuse enqueues a new deck or reuses an existing one for idempotent requests.
func (s *Service) StartOrReuse(ctx context.Context, startupID, userID, templateID string, slideTypes []string, allowRetry bool) (PitchDeck, bool, error) {
	if startupID == "" || userID == "" {
		return PitchDeck{}, false, errors.New("startupID and userID are required")
	}

	d := PitchDeck{
		ID:         uuid.NewString(),
		StartupID:  startupID,
		UserID:     userID,
		TemplateID: templateID,
		SlideTypes: normalizeSlideTypes(slideTypes),
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}

	var allowCreate func() error
	if s.Usage != nil {
		allowCreate = func() error {
			ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
			if err != nil {
				return err
			}
			if !ok {
				return usage.ErrLimitReached
			}
			return nil
		}
	}

	created, wasCreated, err := s.Repo.GetOrCreateForStartup(ctx, d, allowRetry, allowCreate)
	if err != nil {
		return created, false, err
	}
	if wasCreated && s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return created, false, err
		}
	}
	if wasCreated {
		s.dispatch(ctx, created.ID)
	}
	return created, wasCreated, nil
}

// Get returns a deck by ID.
func (s *Service) Get(ctx context.Context, deckID string) (PitchDeck, error) {
	if deckID == "" {
		return PitchDeck{}, errors.New("deckID is required")
	}
	return s.Repo.GetByID(ctx, deckID)
}

// GetLatestForStartup returns the newest deck for a startup.
func (s *Service) GetLatestForStartup(ctx context.Context, userID, startupID string) (PitchDeck, error) {
	if userID == "" || startupID == "" {
		return PitchDeck{}, errors.New("userID and startupID are required")
	}
	return s.Repo.GetLatestForStartup(ctx, userID, startupID)
}

// List returns decks for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]PitchDeck, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// dispatch hands the job to the queue when configured, otherwise processes
// in-process.
func (s *Service) dispatch(ctx context.Context, deckID string) {
	if s.JobQueue != nil {
		msg := queue.Message{
			DeckID:     deckID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.JobQueue.Send(ctx, msg)
		if err == nil {
			return
		}
		// Fall through to in-process handling so the job is not lost.
		telemetry.Error("deck.enqueue_failed", map[string]any{
			"deck_id":    deckID,
			"request_id": msg.RequestID,
			"error":      err.Error(),
		})
	}
	go func(ctx context.Context) {
		_ = s.ProcessDeck(ctx, deckID)
	}(backgroundWithRequestID(ctx))
}

// ProcessDeck runs the full generation pipeline for a queued deck. It is
// called by the in-process dispatcher and by the queue worker.
func (s *Service) ProcessDeck(ctx context.Context, deckID string) error {
	defer func() {
		if r := recover(); r != nil {
			s.failDeck(ctx, deckID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	startedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatusResultAndError(ctx, deckID, StatusProcessing, nil, nil, nil, nil, &startedAt, nil); err != nil {
		s.failDeck(ctx, deckID, "", "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return err
	}

	d, err := s.Repo.GetByID(ctx, deckID)
	if err != nil {
		s.failDeck(ctx, deckID, "", "", fmt.Errorf("deck lookup: %w", err), &startedAt)
		return err
	}
	metrics.IncDeckGenerationStarted()
	telemetry.Info("deck.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           d.UserID,
		"startup_id":        d.StartupID,
		"deck_id":           d.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})

	if s.StartupRepo == nil || s.Store == nil {
		err := errors.New("missing startup store dependencies")
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}
	if s.Generator == nil {
		err := errors.New("missing content generator")
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	profile, err := s.StartupRepo.GetByID(ctx, d.UserID, d.StartupID)
	if err != nil {
		err = fmt.Errorf("startup lookup id=%s: %w", d.StartupID, err)
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	applied, err := s.resolveTemplate(d, profile)
	if err != nil {
		err = fmt.Errorf("template %s: %w", d.TemplateID, err)
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	slideTypes := slideTypesForJob(d, applied)

	requestID := requestIDFromContext(ctx)
	gen := deck.NewRetryingGenerator(s.Generator, deckID, requestID)
	orch, err := deck.NewOrchestrator(gen, s.Concurrency)
	if err != nil {
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	slides, err := orch.GenerateDeckContent(ctx, profile, slideTypes)
	if err != nil {
		err = fmt.Errorf("generate deck content: %w", err)
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	model := s.financeEngine().Build(finance.InputsFromProfile(profile))

	tam := profile.MarketSizeTAM
	if tam <= 0 {
		tam = market.DefaultTAM
	}
	sizing, err := s.marketCalculator().TamSamSom(tam)
	if err != nil {
		err = fmt.Errorf("market sizing: %w", err)
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	result, err := buildDeckResult(applied, slides, model, sizing)
	if err != nil {
		err = fmt.Errorf("assemble deck result: %w", err)
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}

	if key, snapErr := s.snapshotDeck(ctx, d, result); snapErr != nil {
		telemetry.Error("deck.snapshot_failed", map[string]any{
			"request_id": requestID,
			"deck_id":    d.ID,
			"error":      snapErr.Error(),
		})
	} else if key != "" {
		if err := s.Repo.UpdateSnapshotKey(ctx, deckID, key); err != nil {
			telemetry.Error("deck.snapshot_failed", map[string]any{
				"request_id": requestID,
				"deck_id":    d.ID,
				"error":      err.Error(),
			})
		}
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.UpdateDeckResult(ctx, deckID, result, &completedAt); err != nil {
		err = fmt.Errorf("set deck result failed: %w", err)
		s.failDeck(ctx, deckID, d.UserID, d.StartupID, err, &startedAt)
		return err
	}
	metrics.IncDeckGenerationCompleted()
	metrics.ObserveDeckGenerationDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("deck.status", map[string]any{
		"request_id":        requestID,
		"user_id":           d.UserID,
		"startup_id":        d.StartupID,
		"deck_id":           d.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

func (s *Service) resolveTemplate(d PitchDeck, profile startups.Profile) (templates.Applied, error) {
	catalog := s.Templates
	if catalog == nil {
		catalog = templates.NewCatalog()
	}
	now := time.Now().UTC()
	if d.TemplateID == "" {
		tpl := catalog.ForIndustry(profile.Industry)
		return catalog.Apply(tpl.ID, now)
	}
	return catalog.Apply(d.TemplateID, now)
}

func (s *Service) financeEngine() *finance.Engine {
	if s.Finance != nil {
		return s.Finance
	}
	return finance.NewEngine(nil)
}

func (s *Service) marketCalculator() *market.Calculator {
	if s.Market != nil {
		return s.Market
	}
	return market.NewCalculator(market.DefaultSAMFraction, market.DefaultSOMFraction)
}

func slideTypesForJob(d PitchDeck, applied templates.Applied) []deck.SlideType {
	if d.SlideTypes == nil {
		return applied.Slides
	}
	out := make([]deck.SlideType, 0, len(d.SlideTypes))
	for _, raw := range d.SlideTypes {
		out = append(out, deck.SlideType(raw))
	}
	return out
}

func normalizeSlideTypes(slideTypes []string) []string {
	if slideTypes == nil {
		return nil
	}
	out := make([]string, 0, len(slideTypes))
	for _, raw := range slideTypes {
		trimmed := strings.TrimSpace(strings.ToLower(raw))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// buildDeckResult assembles the persisted result document from the typed
// pipeline outputs.
func buildDeckResult(applied templates.Applied, slides []deck.SlideContent, model finance.Model, sizing market.Sizing) (map[string]any, error) {
	result := map[string]any{}
	slidesPayload, err := toJSONValue(slides)
	if err != nil {
		return nil, err
	}
	modelPayload, err := toJSONValue(model)
	if err != nil {
		return nil, err
	}
	sizingPayload, err := toJSONValue(sizing)
	if err != nil {
		return nil, err
	}
	templatePayload, err := toJSONValue(applied)
	if err != nil {
		return nil, err
	}
	result["slides"] = slidesPayload
	result["financialModel"] = modelPayload
	result["marketSizing"] = sizingPayload
	result["template"] = templatePayload
	result["slideCount"] = len(slides)
	return result, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// snapshotDeck exports the assembled deck as JSON to the object store.
func (s *Service) snapshotDeck(ctx context.Context, d PitchDeck, result map[string]any) (string, error) {
	if s.Store == nil {
		return "", nil
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("deck-%s.json", d.ID)
	key, _, _, err := s.Store.Save(ctx, d.UserID, fileName, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) failDeck(ctx context.Context, deckID, userID, startupID string, err error, startedAt *time.Time) {
	code, retryable := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.UpdateStatusResultAndError(context.Background(), deckID, StatusFailed, nil, &code, &msg, &retryable, nil, &completedAt); updateErr != nil {
		fmt.Printf("failDeck: update failed id=%s err=%v orig=%v\n", deckID, updateErr, err)
	}
	metrics.IncDeckGenerationFailed()
	if startedAt != nil {
		metrics.ObserveDeckGenerationDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("deck.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"startup_id":        startupID,
		"deck_id":           deckID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) (string, bool) {
	if err == nil {
		return ErrorCodeInternal, false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, llm.ErrTimeout) {
		return ErrorCodeLLMTimeout, true
	}
	if errors.Is(err, llm.ErrMalformedContent) {
		return ErrorCodeLLMSchemaMismatch, false
	}
	if errors.Is(err, startups.ErrInvalidInput) {
		return ErrorCodeValidation, false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "template") && strings.Contains(msg, "not found") {
		return ErrorCodeValidation, false
	}
	if strings.Contains(msg, "startup") || strings.Contains(msg, "storage") || strings.Contains(msg, "deck result") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage, true
	}
	return ErrorCodeInternal, false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
