package guardrail

import (
	"context"
	"fmt"
	"strings"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/brand"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain/planjson"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/providers/planner"
)

// Result is the quality gate's verdict. Plan always carries a usable plan:
// the revised one when revision succeeded, otherwise the original. The gate
// never blocks generation; a failed revision degrades to "flagged but
// delivered".
type Result struct {
	Passed     bool
	Violations []string
	Notes      string
	Plan       *planjson.ContentPlan
}

// Gate checks repaired plans against brand guardrails and requests at most
// one revision from the generation service on violation. The single-attempt
// bound caps latency and cost; the gate is never recursive.
type Gate struct {
	planner planner.PlanService
	logger  infra.Logger
}

func NewGate(p planner.PlanService, logger infra.Logger) *Gate {
	return &Gate{planner: p, logger: logger}
}

// Check runs the guardrail battery. A nil profile means no brand is
// configured and the gate is a no-op.
func (g *Gate) Check(ctx context.Context, plan *planjson.ContentPlan, profile *domain.BrandProfile) Result {
	if profile == nil {
		return Result{Passed: true, Notes: "no brand profile configured", Plan: plan}
	}
	rails := profile.Guardrails()
	violations := collectViolations(plan, rails)
	if len(violations) == 0 {
		return Result{Passed: true, Plan: plan}
	}

	g.logger.Info().Int("violations", len(violations)).Msg("guardrail: plan violates brand rules, requesting revision")
	revised, err := g.revise(ctx, plan, violations, profile)
	if err != nil {
		g.logger.Warn().Err(err).Msg("guardrail: revision failed, delivering original plan flagged")
		return Result{
			Passed:     false,
			Violations: violations,
			Notes: fmt.Sprintf("revision failed (%v); original plan delivered with violations: %s",
				err, strings.Join(violations, "; ")),
			Plan: plan,
		}
	}
	return Result{
		Passed:     false,
		Violations: violations,
		Notes:      "plan revised once for: " + strings.Join(violations, "; "),
		Plan:       revised,
	}
}

func (g *Gate) revise(ctx context.Context, plan *planjson.ContentPlan, violations []string, profile *domain.BrandProfile) (*planjson.ContentPlan, error) {
	raw, err := planjson.Encode(plan)
	if err != nil {
		return nil, err
	}
	revisedRaw, err := g.planner.RevisePlan(ctx, raw, violations, brand.Summarize(profile))
	if err != nil {
		return nil, err
	}
	// Revision output is as untrusted as the original generation.
	revised, _, err := planjson.Validate(revisedRaw)
	if err != nil {
		return nil, err
	}
	return revised, nil
}

func collectViolations(plan *planjson.ContentPlan, rails domain.BrandGuardrails) []string {
	var violations []string

	caption := plan.Caption.Primary
	captionLower := strings.ToLower(caption)
	for _, phrase := range rails.ForbiddenPhrases {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		if strings.Contains(captionLower, strings.ToLower(phrase)) {
			violations = append(violations, fmt.Sprintf("caption contains forbidden phrase %q", phrase))
		}
	}

	words := len(strings.Fields(caption))
	if rails.MinCaptionWords > 0 && words < rails.MinCaptionWords {
		violations = append(violations, fmt.Sprintf("caption has %d words, below the minimum of %d", words, rails.MinCaptionWords))
	}
	if rails.MaxCaptionWords > 0 && words > rails.MaxCaptionWords {
		violations = append(violations, fmt.Sprintf("caption has %d words, above the maximum of %d", words, rails.MaxCaptionWords))
	}

	if rails.MaxHashtags > 0 {
		if total := plan.Hashtags.Total(); total > rails.MaxHashtags {
			violations = append(violations, fmt.Sprintf("%d hashtags exceed the maximum of %d", total, rails.MaxHashtags))
		}
	}

	if len(rails.ContentRestrictions) > 0 {
		serialized := strings.ToLower(string(planjson.MustMarshal(plan)))
		for _, restriction := range rails.ContentRestrictions {
			keyword := strings.ToLower(strings.TrimSpace(restriction))
			if keyword == "" {
				continue
			}
			if strings.Contains(serialized, keyword) {
				violations = append(violations, fmt.Sprintf("plan references restricted topic %q", restriction))
			}
		}
	}

	return violations
}

// Annotate writes the gate outcome back onto the plan's guardrails_check
// block so the persisted plan is self-describing.
func Annotate(plan *planjson.ContentPlan, res Result) {
	plan.GuardrailsCheck = planjson.GuardrailsCheck{
		Pass:       res.Passed,
		Violations: res.Violations,
		Notes:      res.Notes,
	}
	if plan.GuardrailsCheck.Violations == nil {
		plan.GuardrailsCheck.Violations = []string{}
	}
}
