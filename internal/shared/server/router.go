package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/account"
	googleauth "github.com/hridaygupta/ai-pitchdeck-generator/internal/auth"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/decks"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/config"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/metrics"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/middleware"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server/respond"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/templates"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/usage"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/users"
)

// RouterDeps carries the handlers wired into the HTTP router.
type RouterDeps struct {
	Config          config.Config
	AccountHandler  *account.Handler
	DeckHandler     *decks.Handler
	StartupHandler  *startups.Handler
	TemplateHandler *templates.Handler
	UsageHandler    *usage.Handler
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"GENERATE": {Rate: 0.5, Burst: 3},
				"DEFAULT":  {Rate: 10, Burst: 20},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/startups/:id/decks" {
					return "GENERATE"
				}
				return "DEFAULT"
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.StartupHandler != nil {
		deps.StartupHandler.RegisterRoutes(api)
	}
	if deps.DeckHandler != nil {
		deps.DeckHandler.RegisterRoutes(api)
	}
	if deps.TemplateHandler != nil {
		deps.TemplateHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if cfg.Env == "dev" {
			dev := api.Group("/dev")
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
