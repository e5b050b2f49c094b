package decks

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/middleware"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/respond"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/templates"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/usage"
)

// Handler wires HTTP handlers to the decks service.
type Handler struct {
	Svc         *Service
	StartupRepo startups.Repo
	limiter     *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, startupRepo startups.Repo) *Handler {
	return &Handler{
		Svc:         svc,
		StartupRepo: startupRepo,
		limiter:     newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches deck routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/startups/:id/decks", h.startGeneration)
	rg.GET("/startups/:id/deck", h.latestDeck)
	rg.GET("/decks", h.listDecks)
	rg.GET("/decks/:id", h.getDeck)
}

type startGenerationRequest struct {
	TemplateID string   `json:"templateId"`
	SlideTypes []string `json:"slideTypes"`
}

func (h *Handler) startGeneration(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	startupID := c.Param("id")
	if startupID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "startup id is required", nil)
		return
	}

	var req startGenerationRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	if req.TemplateID != "" {
		catalog := h.Svc.Templates
		if catalog == nil {
			catalog = templates.NewCatalog()
		}
		if _, err := catalog.Get(req.TemplateID); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown template", []map[string]string{
				{"field": "templateId", "issue": "unknown"},
			})
			return
		}
	}
	log.Printf("Starting deck generation for user %s on startup %s", userID, startupID)

	if _, err := h.StartupRepo.GetByID(c.Request.Context(), userID, startupID); err != nil {
		switch {
		case errors.Is(err, startups.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "startup not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start deck generation", nil)
		}
		return
	}

	allowRetry := c.Query("retry") == "true"
	deck, created, err := h.Svc.StartOrReuse(c.Request.Context(), startupID, userID, req.TemplateID, req.SlideTypes, allowRetry)
	if err != nil {
		switch {
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your deck generation limit. Upgrade your plan to continue.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
		case errors.Is(err, ErrRetryRequired):
			respond.Error(c, http.StatusConflict, "retry_required", "Previous generation failed. Pass retry=true to start again.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start deck generation", nil)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusAccepted
	}
	respond.JSON(c, status, gin.H{
		"deckId": deck.ID,
		"status": deck.Status,
	})
}

func (h *Handler) latestDeck(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	startupID := c.Param("id")
	if startupID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "startup id is required", nil)
		return
	}

	if !h.limiter.Allow(userID, startupID) {
		c.Header("Retry-After", strconv.Itoa(h.limiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "poll_too_fast", "Polling too frequently. Retry shortly.", nil)
		return
	}

	deck, err := h.Svc.GetLatestForStartup(c.Request.Context(), userID, startupID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no deck for startup", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch deck", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, deckResponse(deck))
}

func (h *Handler) getDeck(c *gin.Context) {
	deckID := c.Param("id")
	if deckID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "deck id is required", nil)
		return
	}

	deck, err := h.Svc.Get(c.Request.Context(), deckID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "deck not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch deck", nil)
		}
		return
	}
	if deck.UserID != middleware.UserIDFromContext(c) {
		respond.Error(c, http.StatusNotFound, "not_found", "deck not found", nil)
		return
	}

	respond.JSON(c, http.StatusOK, deckResponse(deck))
}

func (h *Handler) listDecks(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}

	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	decks, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list decks", nil)
		return
	}

	resp := make([]gin.H, 0, len(decks))
	for _, d := range decks {
		item := gin.H{
			"deckId":     d.ID,
			"startupId":  d.StartupID,
			"templateId": d.TemplateID,
			"status":     d.Status,
			"createdAt":  d.CreatedAt,
		}
		if d.Status == StatusCompleted && d.Result != nil {
			if count, ok := d.Result["slideCount"]; ok {
				item["slideCount"] = count
			}
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}

func deckResponse(d PitchDeck) gin.H {
	resp := gin.H{
		"id":         d.ID,
		"startupId":  d.StartupID,
		"templateId": d.TemplateID,
		"status":     d.Status,
		"createdAt":  d.CreatedAt,
	}
	if d.Status == StatusCompleted && d.Result != nil {
		resp["result"] = d.Result
	}
	if d.Status == StatusFailed {
		resp["errorCode"] = d.ErrorCode
		if d.ErrorMessage != nil {
			resp["errorMessage"] = *d.ErrorMessage
		}
		resp["errorRetryable"] = d.ErrorRetryable
	}
	return resp
}
