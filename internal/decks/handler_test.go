package decks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/auth"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/middleware"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/usage"
)

func setupDeckRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth("dev"))
	api := router.Group("/api/v1")
	NewHandler(svc, svc.StartupRepo).RegisterRoutes(api)
	return router
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func decodeError(t *testing.T, body *bytes.Buffer) (string, string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error.Code, resp.Error.Message
}

func TestStartGenerationCreatesThenReuses(t *testing.T) {
	svc, _, startupRepo, _ := setupService(t, stubGenerator{})
	startupID := seedStartup(t, startupRepo, "guest:test-guest")
	router := setupDeckRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups/"+startupID+"/decks", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var first struct {
		DeckID string `json:"deckId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if first.DeckID == "" || first.Status != StatusQueued {
		t.Fatalf("unexpected response: %+v", first)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/startups/"+startupID+"/decks", nil)
	addGuestHeader(req2)
	router.ServeHTTP(w2, req2)

	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on reuse, got %d: %s", w2.Code, w2.Body.String())
	}
	var second struct {
		DeckID string `json:"deckId"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if second.DeckID != first.DeckID {
		t.Fatalf("expected reuse of %s, got %s", first.DeckID, second.DeckID)
	}
}

func TestStartGenerationUnknownTemplate(t *testing.T) {
	svc, _, startupRepo, _ := setupService(t, stubGenerator{})
	startupID := seedStartup(t, startupRepo, "guest:test-guest")
	router := setupDeckRouter(t, svc)

	body := bytes.NewBufferString(`{"templateId":"gaming"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups/"+startupID+"/decks", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if code, _ := decodeError(t, w.Body); code != "validation_error" {
		t.Fatalf("expected validation_error, got %s", code)
	}
}

func TestStartGenerationStartupNotFound(t *testing.T) {
	svc, _, _, _ := setupService(t, stubGenerator{})
	router := setupDeckRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups/missing/decks", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if code, _ := decodeError(t, w.Body); code != "not_found" {
		t.Fatalf("expected not_found, got %s", code)
	}
}

func TestStartGenerationFailedDeckRequiresRetry(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)
	router := setupDeckRouter(t, svc)

	failed := PitchDeck{ID: "deck-failed", StartupID: startupID, UserID: userID, Status: StatusFailed, CreatedAt: time.Now().UTC()}
	if err := deckRepo.Create(context.Background(), failed); err != nil {
		t.Fatalf("seed failed deck: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups/"+startupID+"/decks", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if code, _ := decodeError(t, w.Body); code != "retry_required" {
		t.Fatalf("expected retry_required, got %s", code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/startups/"+startupID+"/decks?retry=true", nil)
	addGuestHeader(req2)
	router.ServeHTTP(w2, req2)

	if w2.Code != http.StatusAccepted {
		t.Fatalf("expected 202 with retry=true, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestStartGenerationLimitReached(t *testing.T) {
	svc, _, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)
	svc.Usage = usage.NewService()
	if _, err := svc.Usage.Consume(context.Background(), userID, 10); err != nil {
		t.Fatalf("exhaust usage: %v", err)
	}
	router := setupDeckRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups/"+startupID+"/decks", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", w.Code, w.Body.String())
	}
	if code, _ := decodeError(t, w.Body); code != "limit_reached" {
		t.Fatalf("expected limit_reached, got %s", code)
	}
}

func TestLatestDeckPollingIsRateLimited(t *testing.T) {
	svc, deckRepo, startupRepo, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	startupID := seedStartup(t, startupRepo, userID)
	router := setupDeckRouter(t, svc)

	d := PitchDeck{ID: "deck-1", StartupID: startupID, UserID: userID, Status: StatusProcessing, CreatedAt: time.Now().UTC()}
	if err := deckRepo.Create(context.Background(), d); err != nil {
		t.Fatalf("seed deck: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/startups/"+startupID+"/deck", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/startups/"+startupID+"/deck", nil)
	addGuestHeader(req2)
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on immediate re-poll, got %d", w2.Code)
	}
	if w2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if code, _ := decodeError(t, w2.Body); code != "poll_too_fast" {
		t.Fatalf("expected poll_too_fast, got %s", code)
	}
}

func TestLatestDeckNotFound(t *testing.T) {
	svc, _, startupRepo, _ := setupService(t, stubGenerator{})
	startupID := seedStartup(t, startupRepo, "guest:test-guest")
	router := setupDeckRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/startups/"+startupID+"/deck", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetDeckMasksOtherUsersDecks(t *testing.T) {
	svc, deckRepo, _, _ := setupService(t, stubGenerator{})
	router := setupDeckRouter(t, svc)

	other := PitchDeck{ID: "deck-other", StartupID: "startup-x", UserID: "guest:someone-else", Status: StatusCompleted, CreatedAt: time.Now().UTC()}
	if err := deckRepo.Create(context.Background(), other); err != nil {
		t.Fatalf("seed deck: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decks/deck-other", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign deck, got %d", w.Code)
	}
}

func TestGetDeckReturnsFailureDetails(t *testing.T) {
	svc, deckRepo, _, _ := setupService(t, stubGenerator{})
	userID := "guest:test-guest"
	router := setupDeckRouter(t, svc)

	msg := "provider timeout"
	failed := PitchDeck{
		ID:             "deck-failed",
		StartupID:      "startup-1",
		UserID:         userID,
		Status:         StatusFailed,
		ErrorCode:      ErrorCodeLLMTimeout,
		ErrorMessage:   &msg,
		ErrorRetryable: true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := deckRepo.Create(context.Background(), failed); err != nil {
		t.Fatalf("seed deck: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decks/deck-failed", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status         string `json:"status"`
		ErrorCode      string `json:"errorCode"`
		ErrorMessage   string `json:"errorMessage"`
		ErrorRetryable bool   `json:"errorRetryable"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusFailed || resp.ErrorCode != ErrorCodeLLMTimeout || !resp.ErrorRetryable {
		t.Fatalf("unexpected failure payload: %+v", resp)
	}
	if resp.ErrorMessage != msg {
		t.Fatalf("expected sanitized message %q, got %q", msg, resp.ErrorMessage)
	}
}

func TestListDecksRequiresLoginForGuests(t *testing.T) {
	svc, _, _, _ := setupService(t, stubGenerator{})
	router := setupDeckRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decks", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest history, got %d", w.Code)
	}
	if code, _ := decodeError(t, w.Body); code != "login_required" {
		t.Fatalf("expected login_required, got %s", code)
	}
}

func TestListDecksForAuthenticatedUser(t *testing.T) {
	svc, deckRepo, _, _ := setupService(t, stubGenerator{})
	router := setupDeckRouter(t, svc)

	userID := "user-1"
	for _, id := range []string{"deck-a", "deck-b"} {
		d := PitchDeck{ID: id, StartupID: "startup-1", UserID: userID, Status: StatusCompleted, Result: map[string]any{"slideCount": 10}, CreatedAt: time.Now().UTC()}
		if err := deckRepo.Create(context.Background(), d); err != nil {
			t.Fatalf("seed deck %s: %v", id, err)
		}
	}

	token, err := auth.SignJWT(auth.Claims{Sub: userID, Email: "user@example.com"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var items []struct {
		DeckID     string `json:"deckId"`
		Status     string `json:"status"`
		SlideCount int    `json:"slideCount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(items))
	}
	for _, item := range items {
		if item.SlideCount != 10 {
			t.Fatalf("expected slideCount 10, got %+v", item)
		}
	}
}
