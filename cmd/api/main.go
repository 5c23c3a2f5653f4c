package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/adapter/repo"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/brand"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/cache"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/guardrail"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/http/handlers"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/http/httpapi"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/mediajob"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/orchestrator"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/pipeline"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/planner"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/render"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	var appCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure redis")
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, continuing without cache")
		} else {
			appCache = redisCache
		}
	}

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	planSvc, err := planner.NewGemini(planner.GeminiOptions{
		APIKey:  cfg.PlannerAPIKey,
		Model:   cfg.PlannerModel,
		BaseURL: cfg.PlannerBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure planner")
	}
	images, err := render.NewGeminiImage(render.GeminiImageOptions{
		APIKey:  cfg.RenderAPIKey,
		BaseURL: cfg.RenderBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image renderer")
	}
	videos, err := render.NewVeo(render.VeoOptions{
		APIKey:  cfg.VideoAPIKey,
		BaseURL: cfg.VideoBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure video renderer")
	}

	units := repo.NewUnitRepository(pool)
	plans := repo.NewPlanRepository(pool)
	brands := repo.NewBrandRepository(pool)

	loader := brand.NewLoader(brands, appCache, logger)
	gate := guardrail.NewGate(planSvc, logger)
	orch := orchestrator.New(units, images, videos, store, logger, cfg.ProviderConcurrency)
	svc := pipeline.NewService(loader, planSvc, gate, plans, orch, logger)
	tracker := mediajob.NewTracker(mediajob.Options{
		Units:        units,
		Provider:     videos,
		Store:        store,
		Cache:        appCache,
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
	})

	app := &handlers.App{
		Pipeline: svc,
		Tracker:  tracker,
		Units:    units,
		Plans:    plans,
		Logger:   logger,
	}
	router := httpapi.NewRouter(app, logger, cfg.RateLimitPerMin, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
