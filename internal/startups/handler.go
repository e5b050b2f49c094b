package startups

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/middleware"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the startups service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches startup routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/startups", h.createStartup)
	rg.GET("/startups", h.listStartups)
	rg.GET("/startups/:id", h.getStartup)
	rg.PUT("/startups/:id", h.updateStartup)
}

func (h *Handler) createStartup(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var profile Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid startup payload", nil)
		return
	}
	profile.UserID = userID

	created, err := h.Svc.Create(c.Request.Context(), profile)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create startup", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) getStartup(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	startupID := c.Param("id")
	if startupID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "startup id is required", nil)
		return
	}

	profile, err := h.Svc.Get(c.Request.Context(), userID, startupID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "startup not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch startup", nil)
		}
		return
	}

	respond.OK(c, profile)
}

func (h *Handler) updateStartup(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	startupID := c.Param("id")
	if startupID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "startup id is required", nil)
		return
	}

	var profile Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid startup payload", nil)
		return
	}
	profile.ID = startupID
	profile.UserID = userID

	updated, err := h.Svc.Update(c.Request.Context(), profile)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "startup not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update startup", nil)
		}
		return
	}

	respond.OK(c, updated)
}

func (h *Handler) listStartups(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	profiles, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list startups", nil)
		return
	}
	if profiles == nil {
		profiles = []Profile{}
	}

	respond.OK(c, gin.H{"startups": profiles})
}
