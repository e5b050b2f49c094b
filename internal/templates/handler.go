package templates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/respond"
)

// Handler exposes the template catalog over HTTP.
type Handler struct {
	Catalog *Catalog
}

// NewHandler constructs a Handler.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.listTemplates)
	rg.GET("/templates/:id", h.getTemplate)
}

func (h *Handler) listTemplates(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"templates": h.Catalog.List()})
}

func (h *Handler) getTemplate(c *gin.Context) {
	templateID := c.Param("id")
	if templateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", nil)
		return
	}
	tpl, err := h.Catalog.Get(templateID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch template", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, tpl)
}
