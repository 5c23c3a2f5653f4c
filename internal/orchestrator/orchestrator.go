package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain/planjson"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/render"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/storage"
)

// Orchestrator dispatches a finalized content plan to the rendering
// providers and owns the lifecycle of the resulting generation units.
type Orchestrator struct {
	units  domain.UnitRepository
	images render.ImageGenerator
	videos render.VideoRenderer
	store  storage.ObjectStore
	logger infra.Logger
	sem    chan struct{}
}

// New wires the orchestrator. maxConcurrent bounds in-flight render-provider
// calls across all requests; the providers are a shared, rate-limited
// resource system-wide.
func New(units domain.UnitRepository, images render.ImageGenerator, videos render.VideoRenderer, store storage.ObjectStore, logger infra.Logger, maxConcurrent int) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Orchestrator{
		units:  units,
		images: images,
		videos: videos,
		store:  store,
		logger: logger,
		sem:    make(chan struct{}, maxConcurrent),
	}
}

// Generate renders the plan's assets and returns the ids of every unit it
// created, in order. For carousels the full id set is returned even when
// individual slides failed; for single assets a render failure is returned
// to the caller after the unit is marked failed.
func (o *Orchestrator) Generate(ctx context.Context, ownerID string, plan *planjson.ContentPlan, mediaType domain.MediaType, brandContext string) ([]string, error) {
	if plan == nil {
		return nil, fmt.Errorf("orchestrator: plan is required")
	}
	if plan.ContentType == "carousel" && plan.Carousel != nil && len(plan.Carousel.Slides) > 0 {
		return o.generateCarousel(ctx, ownerID, plan, brandContext)
	}
	if mediaType == domain.MediaTypeVideo {
		return o.generateVideo(ctx, ownerID, plan, brandContext)
	}
	return o.generateImage(ctx, ownerID, plan, brandContext)
}

func (o *Orchestrator) generateImage(ctx context.Context, ownerID string, plan *planjson.ContentPlan, brandContext string) ([]string, error) {
	unit := &domain.GenerationUnit{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Prompt:    plan.PrimaryVisualPrompt(),
		MediaType: domain.MediaTypeImage,
		Status:    domain.UnitStatusProcessing,
	}
	if err := o.units.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("orchestrator: create unit: %w", err)
	}
	ids := []string{unit.ID}

	asset, err := o.renderImage(ctx, render.ImageRequest{
		Prompt:       unit.Prompt,
		AspectRatio:  plan.VisualPrompt.AspectRatio,
		BrandContext: brandContext,
		RequestID:    unit.ID,
	})
	if err != nil {
		o.markFailed(ctx, unit.ID, err)
		return ids, err
	}
	if err := o.storeImage(ctx, ownerID, unit.ID, asset); err != nil {
		o.markFailed(ctx, unit.ID, err)
		return ids, err
	}
	return ids, nil
}

func (o *Orchestrator) generateVideo(ctx context.Context, ownerID string, plan *planjson.ContentPlan, brandContext string) ([]string, error) {
	unit := &domain.GenerationUnit{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Prompt:    plan.PrimaryVisualPrompt(),
		MediaType: domain.MediaTypeVideo,
		Status:    domain.UnitStatusProcessing,
	}
	if err := o.units.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("orchestrator: create unit: %w", err)
	}
	ids := []string{unit.ID}

	if err := o.acquire(ctx); err != nil {
		o.markFailed(ctx, unit.ID, err)
		return ids, err
	}
	handle, err := o.videos.Submit(ctx, render.VideoRequest{
		Prompt:       unit.Prompt,
		AspectRatio:  plan.VisualPrompt.AspectRatio,
		BrandContext: brandContext,
		RequestID:    unit.ID,
	})
	o.release()
	if err != nil {
		o.markFailed(ctx, unit.ID, err)
		return ids, err
	}
	if err := o.units.SetVideoJob(ctx, unit.ID, handle.JobID); err != nil {
		o.markFailed(ctx, unit.ID, err)
		return ids, fmt.Errorf("orchestrator: record video job: %w", err)
	}
	o.logger.Info().Str("unit_id", unit.ID).Str("job_id", handle.JobID).Msg("orchestrator: video job submitted")
	return ids, nil
}

// generateCarousel persists every placeholder unit up front so consumers can
// render skeleton state immediately, then renders slides strictly
// sequentially in ascending index order. Later slides may depend on earlier
// ones for visual consistency and sequential rendering bounds the provider
// request rate, so this loop must not be parallelized. Per-slide failures
// mark that unit failed and the loop continues; partial carousels are an
// accepted outcome.
func (o *Orchestrator) generateCarousel(ctx context.Context, ownerID string, plan *planjson.ContentPlan, brandContext string) ([]string, error) {
	slides := plan.Carousel.Slides
	batchID := uuid.NewString()
	units := make([]*domain.GenerationUnit, len(slides))
	for i, slide := range slides {
		units[i] = &domain.GenerationUnit{
			ID:                 uuid.NewString(),
			OwnerID:            ownerID,
			Prompt:             slidePrompt(plan, i, slide),
			MediaType:          domain.MediaTypeImage,
			Status:             domain.UnitStatusProcessing,
			BatchID:            batchID,
			BatchIndex:         i,
			CarouselSlideIndex: i,
			CarouselSlideTotal: len(slides),
		}
	}
	if err := o.units.CreateBatch(ctx, units); err != nil {
		return nil, fmt.Errorf("orchestrator: create carousel batch: %w", err)
	}
	ids := make([]string, len(units))
	for i, unit := range units {
		ids[i] = unit.ID
	}

	for i, unit := range units {
		asset, err := o.renderImage(ctx, render.ImageRequest{
			Prompt:       unit.Prompt,
			AspectRatio:  plan.VisualPrompt.AspectRatio,
			BrandContext: brandContext,
			RequestID:    unit.ID,
		})
		if err != nil {
			o.logger.Warn().Err(err).Str("unit_id", unit.ID).Int("slide", i).Msg("orchestrator: carousel slide failed, continuing")
			o.markFailed(ctx, unit.ID, err)
			continue
		}
		if err := o.storeImage(ctx, ownerID, unit.ID, asset); err != nil {
			o.logger.Warn().Err(err).Str("unit_id", unit.ID).Int("slide", i).Msg("orchestrator: carousel slide store failed, continuing")
			o.markFailed(ctx, unit.ID, err)
		}
	}
	return ids, nil
}

func (o *Orchestrator) renderImage(ctx context.Context, req render.ImageRequest) (*render.ImageAsset, error) {
	if err := o.acquire(ctx); err != nil {
		return nil, err
	}
	defer o.release()
	return o.images.Generate(ctx, req)
}

func (o *Orchestrator) storeImage(ctx context.Context, ownerID, unitID string, asset *render.ImageAsset) error {
	key := fmt.Sprintf("%s/images/%s%s", ownerID, unitID, extensionForMIME(asset.Format))
	location, err := o.store.Upload(ctx, key, asset.Data)
	if err != nil {
		return fmt.Errorf("orchestrator: store asset: %w", err)
	}
	if err := o.units.SetStoragePath(ctx, unitID, location); err != nil {
		return fmt.Errorf("orchestrator: record storage path: %w", err)
	}
	if err := o.units.UpdateStatus(ctx, unitID, domain.UnitStatusCompleted, ""); err != nil {
		return fmt.Errorf("orchestrator: mark completed: %w", err)
	}
	return nil
}

func (o *Orchestrator) markFailed(ctx context.Context, unitID string, cause error) {
	if err := o.units.UpdateStatus(ctx, unitID, domain.UnitStatusFailed, cause.Error()); err != nil {
		o.logger.Error().Err(err).Str("unit_id", unitID).Msg("orchestrator: mark failed errored")
	}
}

func (o *Orchestrator) acquire(ctx context.Context) error {
	select {
	case o.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) release() {
	<-o.sem
}

func slidePrompt(plan *planjson.ContentPlan, index int, slide planjson.CarouselSlide) string {
	if index < len(plan.VisualPrompt.Slides) {
		vs := plan.VisualPrompt.Slides[index]
		if vs.FullPrompt != "" {
			return vs.FullPrompt
		}
		if vs.ImagePrompt != "" {
			return vs.ImagePrompt
		}
	}
	if slide.ImagePrompt != "" {
		return slide.ImagePrompt
	}
	return plan.IntentSummary
}

func extensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}
