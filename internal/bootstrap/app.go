package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-studio/internal/extraction"
	"resume-studio/internal/imports"
	"resume-studio/internal/llm"
	"resume-studio/internal/llm/gemini"
	"resume-studio/internal/refimage"
	"resume-studio/internal/services/health"
	"resume-studio/internal/sessions"
	"resume-studio/internal/shared/config"
	"resume-studio/internal/shared/server"
	"resume-studio/internal/shared/storage/object"
	localstore "resume-studio/internal/shared/storage/object/local"
	s3store "resume-studio/internal/shared/storage/object/s3"
	"resume-studio/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	Store          object.ObjectStore
	Generator      llm.Generator
	Extraction     *extraction.Client
	SessionsRepo   *sessions.MemoryRepo
	Sessions       *sessions.Service
	SessionHandler *sessions.Handler
	ImportHandler  *imports.Handler
	Health         *health.Service
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	extractor := extraction.New(gen, cfg.LLMModel)
	repo := sessions.NewMemoryRepo()
	stager := &refimage.Stager{Objects: store, MaxBytes: cfg.MaxImageBytes}
	svc := sessions.NewService(repo, extractor, stager, cfg.SessionTTL)

	app := &App{
		Config:         cfg,
		Store:          store,
		Generator:      gen,
		Extraction:     extractor,
		SessionsRepo:   repo,
		Sessions:       svc,
		SessionHandler: sessions.NewHandler(svc, cfg.MaxImageBytes),
		ImportHandler:  imports.NewHandler(cfg.MaxImportBytes),
		Health:         health.NewService(repo, cfg.GeminiAPIKey != "", cfg.LLMModel, cfg.ObjectStoreType),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		SessionHandler: app.SessionHandler,
		ImportHandler:  app.ImportHandler,
		Health:         app.Health,
	})

	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildGenerator falls back to the placeholder when no key is configured so
// the rest of the app keeps working.
func buildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"model": cfg.LLMModel})
		return llm.PlaceholderGenerator{}, nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return client, nil
}
