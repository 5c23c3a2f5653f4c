package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/brand"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/brief"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain/planjson"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/guardrail"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/orchestrator"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/planner"
)

// Request is one end-to-end generation request as submitted by a client.
type Request struct {
	OwnerID        string
	RawInput       string
	Clarifications domain.IntentHints
	ContentType    string
	MediaType      domain.MediaType
	AspectRatio    string
	AssetContext   string
	HistorySummary string
}

// Result carries everything a client needs after the plan stage finished:
// the finalized plan, what was repaired, how the quality gate ruled, and the
// generation units now rendering (or already rendered).
type Result struct {
	PlanID     string                `json:"plan_id"`
	Plan       *planjson.ContentPlan `json:"plan"`
	RepairLog  []string              `json:"repair_log"`
	GatePassed bool                  `json:"gate_passed"`
	GateNotes  string                `json:"gate_notes,omitempty"`
	Violations []string              `json:"violations,omitempty"`
	UnitIDs    []string              `json:"unit_ids"`
}

// Service runs the full content generation pipeline. Stages are strictly
// ordered: brand load, brief assembly, plan generation, repair, quality gate,
// persistence, then media dispatch. A plan is never dispatched before it has
// been repaired and gated.
type Service struct {
	brands  *brand.Loader
	planner planner.PlanService
	gate    *guardrail.Gate
	plans   domain.PlanRepository
	render  *orchestrator.Orchestrator
	logger  infra.Logger
}

func NewService(brands *brand.Loader, p planner.PlanService, gate *guardrail.Gate, plans domain.PlanRepository, render *orchestrator.Orchestrator, logger infra.Logger) *Service {
	return &Service{
		brands:  brands,
		planner: p,
		gate:    gate,
		plans:   plans,
		render:  render,
		logger:  logger,
	}
}

// Generate executes the pipeline for one request. Provider failures abort
// the request: a failed plan generation before persistence, or a failed
// single-asset render after it. Carousel slides are the one exception, where
// per-slide failures are recorded on the units and the batch is delivered
// partial.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("pipeline: owner id is required")
	}
	if req.RawInput == "" {
		return nil, fmt.Errorf("pipeline: input text is required")
	}

	profile, err := s.brands.Load(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	b := brief.Build(brief.BuildInput{
		RawInput:       req.RawInput,
		Clarifications: req.Clarifications,
		BrandSummary:   s.brands.Summary(ctx, profile),
		BrandPlatforms: brandPlatforms(profile),
		AssetContext:   req.AssetContext,
		HistorySummary: req.HistorySummary,
		ContentType:    req.ContentType,
		MediaType:      req.MediaType,
		AspectRatio:    req.AspectRatio,
	})

	raw, err := s.planner.GeneratePlan(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("pipeline: generate plan: %w", err)
	}
	plan, repairLog, err := planjson.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("pipeline: plan rejected after repair: %w", err)
	}
	if len(repairLog) > 0 {
		s.logger.Info().Str("owner_id", req.OwnerID).Int("repairs", len(repairLog)).Msg("pipeline: plan repaired")
	}

	gateRes := s.gate.Check(ctx, plan, profile)
	plan = gateRes.Plan
	guardrail.Annotate(plan, gateRes)

	record := &domain.PlanRecord{
		ID:           uuid.NewString(),
		OwnerID:      req.OwnerID,
		RequestInput: req.RawInput,
		PlanJSON:     planjson.MustMarshal(plan),
		RepairLog:    repairLog,
		GatePassed:   gateRes.Passed,
		GateNotes:    gateRes.Notes,
	}
	if err := s.plans.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("pipeline: persist plan: %w", err)
	}

	unitIDs, err := s.render.Generate(ctx, req.OwnerID, plan, b.MediaType, b.BrandSummary)
	if err != nil {
		// Single-asset render failure is fatal to the request. The plan and
		// the failed unit are already persisted for diagnosis.
		s.logger.Warn().Err(err).Str("plan_id", record.ID).Msg("pipeline: media dispatch failed")
		return nil, fmt.Errorf("pipeline: render media: %w", err)
	}

	return &Result{
		PlanID:     record.ID,
		Plan:       plan,
		RepairLog:  repairLog,
		GatePassed: gateRes.Passed,
		GateNotes:  gateRes.Notes,
		Violations: gateRes.Violations,
		UnitIDs:    unitIDs,
	}, nil
}

func brandPlatforms(profile *domain.BrandProfile) []string {
	if profile == nil {
		return nil
	}
	return profile.PreferredPlatforms
}
