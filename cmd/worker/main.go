package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/adapter/repo"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/cache"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/mediajob"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/render"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/storage"
)

const (
	sweepInterval = 10 * time.Second
	sweepBatch    = 20
)

// The worker sweeps pending video units and drives each render job to a
// terminal state. Clients polling the status endpoint and this sweep share
// the same tracker semantics, so double work is bounded to one extra poll.
type sweeper struct {
	units   domain.UnitRepository
	tracker *mediajob.Tracker
	logger  infra.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	var appCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("worker: redis misconfigured, continuing without cache")
		} else if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("worker: redis unreachable, continuing without cache")
		} else {
			appCache = redisCache
		}
	}

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}
	videos, err := render.NewVeo(render.VeoOptions{
		APIKey:  cfg.VideoAPIKey,
		BaseURL: cfg.VideoBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure video renderer")
	}

	units := repo.NewUnitRepository(pool)
	tracker := mediajob.NewTracker(mediajob.Options{
		Units:        units,
		Provider:     videos,
		Store:        store,
		Cache:        appCache,
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
	})

	s := &sweeper{
		units:    units,
		tracker:  tracker,
		logger:   logger,
		inFlight: map[string]struct{}{},
	}
	if err := s.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (s *sweeper) run(ctx context.Context) error {
	s.logger.Info().Msg("worker: started")
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	pending, err := s.units.ListPendingVideo(ctx, sweepBatch)
	if err != nil {
		s.logger.Error().Err(err).Msg("worker: list pending videos failed")
		return
	}
	for _, unit := range pending {
		if !s.claim(unit.ID) {
			continue
		}
		go func(id string) {
			defer s.release(id)
			update, err := s.tracker.Await(ctx, id)
			if err != nil {
				s.logger.Warn().Err(err).Str("unit_id", id).Msg("worker: tracking aborted")
				return
			}
			s.logger.Info().
				Str("unit_id", id).
				Str("status", string(update.Status)).
				Msg("worker: video job finished")
		}(unit.ID)
	}
}

// claim guards against re-tracking a unit that a previous sweep is still
// polling.
func (s *sweeper) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[id]; ok {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *sweeper) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
