package mediajob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/cache"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain/planjson"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/render"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/storage"
)

const (
	// Progress heuristics for vendors that report no percentage.
	progressProcessing = 60
	progressTerminal   = 100

	maxAssetDownload = 256 << 20
	snapshotTTL      = 30 * time.Second
)

// Update is the tracker's view of one video unit after a poll step.
type Update struct {
	UnitID       string            `json:"unit_id"`
	Status       domain.UnitStatus `json:"status"`
	VendorStatus string            `json:"vendor_status,omitempty"`
	Progress     int               `json:"progress"`
	StoragePath  string            `json:"storage_path,omitempty"`
	Message      string            `json:"message,omitempty"`
}

// Options configures a Tracker.
type Options struct {
	Units        domain.UnitRepository
	Provider     render.VideoRenderer
	Store        storage.ObjectStore
	Cache        cache.Cache
	HTTPClient   *http.Client
	Logger       infra.Logger
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Tracker drives asynchronous video render jobs to a terminal state. It is
// safe to invoke repeatedly for the same unit: once a durable asset location
// is recorded the tracker short-circuits without contacting the provider.
type Tracker struct {
	units    domain.UnitRepository
	provider render.VideoRenderer
	store    storage.ObjectStore
	cache    cache.Cache
	client   *http.Client
	logger   infra.Logger
	interval time.Duration
	timeout  time.Duration
}

func NewTracker(opts Options) *Tracker {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = 4 * time.Minute
	}
	return &Tracker{
		units:    opts.Units,
		provider: opts.Provider,
		store:    opts.Store,
		cache:    opts.Cache,
		client:   client,
		logger:   opts.Logger,
		interval: interval,
		timeout:  timeout,
	}
}

// Check performs one poll step for the unit's render job and persists any
// state transition. Transient provider errors are returned to the caller
// without marking the unit failed; the next poll retries.
func (t *Tracker) Check(ctx context.Context, unitID string) (*Update, error) {
	unit, err := t.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.MediaType != domain.MediaTypeVideo {
		return nil, fmt.Errorf("mediajob: unit %s is not a video unit", unitID)
	}

	// Idempotency: a recorded durable asset means the job is done. Repeated
	// client polling must not hit the provider again.
	if unit.StoragePath != "" {
		return t.snapshot(ctx, &Update{
			UnitID:      unit.ID,
			Status:      domain.UnitStatusCompleted,
			Progress:    progressTerminal,
			StoragePath: unit.StoragePath,
		}), nil
	}
	if unit.Status == domain.UnitStatusFailed {
		return &Update{
			UnitID:   unit.ID,
			Status:   domain.UnitStatusFailed,
			Progress: progressTerminal,
			Message:  unit.ErrorMessage,
		}, nil
	}
	if unit.VideoJobID == "" {
		return nil, fmt.Errorf("mediajob: unit %s has no provider job recorded", unitID)
	}

	st, err := t.provider.Status(ctx, unit.VideoJobID)
	if err != nil {
		return nil, err
	}
	canonical := CanonicalStatus(st.Status)
	update := &Update{UnitID: unit.ID, VendorStatus: st.Status, Message: st.Message}

	switch domain.UnitStatus(canonical) {
	case domain.UnitStatusCompleted:
		update.Progress = progressTerminal
		if st.AssetURL == "" {
			return t.fail(ctx, update, "provider reported success without an asset url")
		}
		location, err := t.persistAsset(ctx, unit, st.AssetURL)
		if err != nil {
			// Download/upload hiccups are retryable; the job itself is fine.
			return nil, err
		}
		update.Status = domain.UnitStatusCompleted
		update.StoragePath = location
		if err := t.units.UpdateStatus(ctx, unit.ID, domain.UnitStatusCompleted, ""); err != nil {
			return nil, fmt.Errorf("mediajob: mark completed: %w", err)
		}
		t.logger.Info().Str("unit_id", unit.ID).Str("job_id", unit.VideoJobID).Msg("mediajob: video completed")
	case domain.UnitStatusFailed:
		reason := st.Message
		if reason == "" {
			reason = fmt.Sprintf("provider reported %q", st.Status)
		}
		return t.fail(ctx, update, reason)
	default:
		// Processing, or an unrecognized vendor status carried verbatim.
		update.Status = domain.UnitStatusProcessing
		update.Progress = progressProcessing
		if st.Progress != nil {
			update.Progress = clampProgress(*st.Progress)
		}
	}
	return t.snapshot(ctx, update), nil
}

// Await polls Check at the configured interval until the unit reaches a
// terminal state or the poll budget is exhausted. Budget exhaustion is a
// terminal failed transition, not an infinite wait.
func (t *Tracker) Await(ctx context.Context, unitID string) (*Update, error) {
	deadline := time.Now().Add(t.timeout)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		update, err := t.Check(ctx, unitID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			t.logger.Warn().Err(err).Str("unit_id", unitID).Msg("mediajob: poll step failed, retrying")
		} else if update.Status.Terminal() {
			return update, nil
		}

		if time.Now().After(deadline) {
			reason := fmt.Sprintf("render did not finish within %s: %v", t.timeout, domain.ErrPollTimeout)
			failed := &Update{UnitID: unitID, Progress: progressTerminal}
			return t.fail(ctx, failed, reason)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// persistAsset downloads the provider's ephemeral asset URL and re-uploads
// it to durable storage, returning the durable location. The provider URL is
// never persisted as the source of truth.
func (t *Tracker) persistAsset(ctx context.Context, unit *domain.GenerationUnit, assetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", fmt.Errorf("mediajob: build download: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mediajob: %w: download asset: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("mediajob: %w: download asset status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetDownload))
	if err != nil {
		return "", fmt.Errorf("mediajob: read asset: %w", err)
	}
	key := fmt.Sprintf("%s/videos/%s.mp4", unit.OwnerID, unit.ID)
	location, err := t.store.Upload(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("mediajob: store asset: %w", err)
	}
	if err := t.units.SetStoragePath(ctx, unit.ID, location); err != nil {
		return "", fmt.Errorf("mediajob: record storage path: %w", err)
	}
	return location, nil
}

func (t *Tracker) fail(ctx context.Context, update *Update, reason string) (*Update, error) {
	update.Status = domain.UnitStatusFailed
	update.Progress = progressTerminal
	update.Message = reason
	if err := t.units.UpdateStatus(ctx, update.UnitID, domain.UnitStatusFailed, reason); err != nil {
		return nil, fmt.Errorf("mediajob: mark failed: %w", err)
	}
	return t.snapshot(ctx, update), nil
}

// snapshot caches the latest update so status endpoints can answer cheap
// repeated polls. Cache failures are ignored.
func (t *Tracker) snapshot(ctx context.Context, update *Update) *Update {
	if t.cache == nil {
		return update
	}
	if err := t.cache.Set(ctx, cache.VideoStatusKey(update.UnitID), planjson.MustMarshal(update), snapshotTTL); err != nil {
		t.logger.Debug().Err(err).Str("unit_id", update.UnitID).Msg("mediajob: snapshot cache write failed")
	}
	return update
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
