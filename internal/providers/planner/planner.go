package planner

import (
	"context"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

// PlanService is the structured-generation boundary. GeneratePlan either
// returns parseable JSON or fails; there are no partial results and no
// retries here. Recoverable structural defects are the validator's job, so
// provider errors propagate unmodified.
type PlanService interface {
	GeneratePlan(ctx context.Context, brief domain.GenerationBrief) (map[string]any, error)
	RevisePlan(ctx context.Context, plan map[string]any, violations []string, brandContext string) (map[string]any, error)
}
