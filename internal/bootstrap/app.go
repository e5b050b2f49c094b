package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/account"
	googleauth "github.com/hridaygupta/ai-pitchdeck-generator/internal/auth"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/decks"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/finance"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/llm"
	anthropicllm "github.com/hridaygupta/ai-pitchdeck-generator/internal/llm/anthropic"
	openaillm "github.com/hridaygupta/ai-pitchdeck-generator/internal/llm/openai"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/market"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/queue"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/config"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/server"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/storage/db"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/storage/object"
	localstore "github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/storage/object/local"
	s3store "github.com/hridaygupta/ai-pitchdeck-generator/internal/shared/storage/object/s3"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/templates"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/usage"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/users"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Queue           queue.Client
	StartupsRepo    startups.Repo
	DecksRepo       decks.Repo
	UsersRepo       users.Repo
	StartupsService *startups.Service
	UsageService    *usage.Service
	DecksService    *decks.Service
	DeckProcessor   DeckProcessor
	AccountService  *account.Service
	UsersService    *users.Service
	StartupHandler  *startups.Handler
	DeckHandler     *decks.Handler
	TemplateHandler *templates.Handler
	AccountHandler  *account.Handler
	UsageHandler    *usage.Handler
	UsersHandler    *users.Handler
	GoogleAuth      *googleauth.GoogleService
}

// DeckProcessor allows callers to override deck processing for tests.
type DeckProcessor interface {
	ProcessDeck(ctx context.Context, deckID string) error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Router: nil,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AccountHandler:  app.AccountHandler,
		DeckHandler:     app.DeckHandler,
		StartupHandler:  app.StartupHandler,
		TemplateHandler: app.TemplateHandler,
		UsageHandler:    app.UsageHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("PD_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildGenerator(cfg config.Config) (llm.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "openai":
		return openaillm.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
	case "anthropic":
		return anthropicllm.NewClient(os.Getenv("ANTHROPIC_API_KEY"), cfg.LLMModel)
	case "", "none", "placeholder":
		return llm.PlaceholderGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func buildServices(app *App) error {
	var startupRepo startups.Repo
	var deckRepo decks.Repo
	var userRepo users.Repo

	if app.DB != nil {
		startupRepo = &startups.PGRepo{DB: app.DB}
		deckRepo = &decks.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		startupRepo = startups.NewMemoryRepo()
		deckRepo = decks.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	generator, err := buildGenerator(app.Config)
	if err != nil {
		return err
	}

	catalog := templates.NewCatalog()
	startupSvc := startups.NewService(startupRepo)

	deckSvc := &decks.Service{
		Repo:        deckRepo,
		Usage:       usageSvc,
		StartupRepo: startupRepo,
		Store:       app.Store,
		Generator:   generator,
		Templates:   catalog,
		Finance:     finance.NewEngine(nil),
		Market:      market.NewCalculator(app.Config.SAMFraction, app.Config.SOMFraction),
		JobQueue:    app.Queue,
		Concurrency: app.Config.DeckConcurrency,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)

	app.StartupsRepo = startupRepo
	app.DecksRepo = deckRepo
	app.UsersRepo = userRepo
	app.StartupsService = startupSvc
	app.UsageService = usageSvc
	app.DecksService = deckSvc
	app.DeckProcessor = deckSvc
	app.AccountService = account.NewService(startupRepo, deckRepo)
	app.UsersService = userSvc
	app.StartupHandler = startups.NewHandler(startupSvc)
	app.DeckHandler = decks.NewHandler(deckSvc, startupRepo)
	app.TemplateHandler = templates.NewHandler(catalog)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	if app.StartupHandler == nil || app.DeckHandler == nil || app.UsageHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
