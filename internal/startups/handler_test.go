package startups

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/middleware"
)

func setupStartupRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	router := gin.New()
	router.Use(middleware.Auth("dev"))
	api := router.Group("/api/v1")
	NewHandler(NewService(repo)).RegisterRoutes(api)
	return router, repo
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestCreateStartupNormalizesAndPersists(t *testing.T) {
	router, repo := setupStartupRouter(t)

	body := bytes.NewBufferString(`{
		"name": "CloudMetrics",
		"industry": " SaaS ",
		"teamSize": 8,
		"customerCount": 40,
		"currentRevenue": 25000
	}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created Profile
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.Industry != IndustrySaaS {
		t.Fatalf("expected normalized industry saas, got %q", created.Industry)
	}
	if created.FundingStage != StageSeed {
		t.Fatalf("expected default stage seed, got %q", created.FundingStage)
	}
	if created.UserID != "guest:test-guest" {
		t.Fatalf("expected guest user id, got %q", created.UserID)
	}

	stored, err := repo.GetByID(context.Background(), "guest:test-guest", created.ID)
	if err != nil {
		t.Fatalf("stored profile lookup: %v", err)
	}
	if stored.Name != "CloudMetrics" {
		t.Fatalf("unexpected stored profile: %+v", stored)
	}
}

func TestCreateStartupRejectsMissingName(t *testing.T) {
	router, _ := setupStartupRouter(t)

	body := bytes.NewBufferString(`{"industry":"saas"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateStartupRejectsNegativeNumbers(t *testing.T) {
	router, _ := setupStartupRouter(t)

	body := bytes.NewBufferString(`{"name":"CloudMetrics","currentRevenue":-5}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/startups", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetStartupScopedToOwner(t *testing.T) {
	router, repo := setupStartupRouter(t)

	profile := Profile{
		ID:        "startup-1",
		UserID:    "guest:someone-else",
		Name:      "OtherCo",
		Industry:  IndustrySaaS,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/startups/startup-1", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign startup, got %d", w.Code)
	}
}

func TestUpdateStartupPreservesCreatedAt(t *testing.T) {
	router, repo := setupStartupRouter(t)

	createdAt := time.Now().UTC().Add(-24 * time.Hour)
	profile := Profile{
		ID:        "startup-1",
		UserID:    "guest:test-guest",
		Name:      "CloudMetrics",
		Industry:  IndustrySaaS,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := repo.Create(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	body := bytes.NewBufferString(`{"name":"CloudMetrics AI","industry":"ai_ml","fundingStage":"series_a"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/startups/startup-1", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated Profile
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Name != "CloudMetrics AI" || updated.Industry != IndustryAIML || updated.FundingStage != "series_a" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Fatalf("createdAt must be preserved, got %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Fatalf("updatedAt must advance, got %v", updated.UpdatedAt)
	}
}

func TestUpdateMissingStartupReturnsNotFound(t *testing.T) {
	router, _ := setupStartupRouter(t)

	body := bytes.NewBufferString(`{"name":"Ghost"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/startups/missing", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListStartupsReturnsOwnProfilesOnly(t *testing.T) {
	router, repo := setupStartupRouter(t)

	now := time.Now().UTC()
	own := Profile{ID: "startup-1", UserID: "guest:test-guest", Name: "Mine", Industry: IndustrySaaS, CreatedAt: now, UpdatedAt: now}
	foreign := Profile{ID: "startup-2", UserID: "guest:someone-else", Name: "Theirs", Industry: IndustrySaaS, CreatedAt: now, UpdatedAt: now}
	for _, p := range []Profile{own, foreign} {
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("seed profile %s: %v", p.ID, err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/startups", nil)
	addGuestHeader(req)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Startups []Profile `json:"startups"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Startups) != 1 || resp.Startups[0].ID != "startup-1" {
		t.Fatalf("expected only own startup, got %+v", resp.Startups)
	}
}
