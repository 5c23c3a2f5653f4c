package planjson

import (
	"encoding/json"
	"fmt"
)

// ContentPlan is the structured multi-field content package produced per
// generation request. Instances arrive untrusted from the generation service
// and must pass through Repair before anything downstream reads them.
type ContentPlan struct {
	IntentSummary   string          `json:"intent_summary"`
	ContentGoal     string          `json:"content_goal"`
	PrimaryPlatform string          `json:"primary_platform"`
	Platforms       []string        `json:"platforms"`
	ContentType     string          `json:"content_type"`
	Carousel        *Carousel       `json:"carousel,omitempty"`
	VisualPrompt    VisualPrompt    `json:"visual_prompt"`
	Caption         Caption         `json:"caption"`
	Title           Title           `json:"title"`
	Hashtags        Hashtags        `json:"hashtags"`
	SEO             SEO             `json:"seo"`
	GuardrailsCheck GuardrailsCheck `json:"guardrails_check"`
}

// Carousel describes a multi-slide content package sharing one theme.
type Carousel struct {
	SlideCount int             `json:"slide_count"`
	Theme      string          `json:"theme"`
	Slides     []CarouselSlide `json:"slides"`
}

type CarouselSlide struct {
	Index       int    `json:"index"`
	Purpose     string `json:"purpose"`
	Headline    string `json:"headline"`
	Body        string `json:"body"`
	ImagePrompt string `json:"image_prompt"`
}

// VisualPrompt carries the rendering instructions for every slide (a single
// entry for non-carousel content).
type VisualPrompt struct {
	GlobalStyle string        `json:"global_style"`
	AspectRatio string        `json:"aspect_ratio"`
	Slides      []VisualSlide `json:"slides"`
}

type VisualSlide struct {
	Index       int    `json:"index"`
	ImagePrompt string `json:"image_prompt"`
	FullPrompt  string `json:"full_prompt"`
}

type Caption struct {
	Primary           string            `json:"primary"`
	Hook              string            `json:"hook"`
	CTA               string            `json:"cta"`
	PlatformOverrides map[string]string `json:"platform_overrides"`
}

type Title struct {
	Generic           string            `json:"generic"`
	PlatformOverrides map[string]string `json:"platform_overrides"`
}

type Hashtags struct {
	Primary      []string            `json:"primary"`
	Niche        []string            `json:"niche"`
	Trending     []string            `json:"trending"`
	Brand        []string            `json:"brand"`
	PlatformSets map[string][]string `json:"platform_sets"`
}

// Total counts every tag across the four groups.
func (h Hashtags) Total() int {
	return len(h.Primary) + len(h.Niche) + len(h.Trending) + len(h.Brand)
}

type SEO struct {
	Score             float64                 `json:"score"`
	ScoreCategory     string                  `json:"score_category"`
	ScoreBreakdown    map[string]SEODimension `json:"score_breakdown"`
	ImprovementReport []string                `json:"improvement_report"`
}

type SEODimension struct {
	Score     float64 `json:"score"`
	Max       float64 `json:"max"`
	Rationale string  `json:"rationale"`
}

type GuardrailsCheck struct {
	Pass       bool     `json:"pass"`
	Violations []string `json:"violations"`
	Notes      string   `json:"notes"`
}

// PrimaryVisualPrompt returns the prompt used for single-asset rendering.
func (p *ContentPlan) PrimaryVisualPrompt() string {
	if p == nil {
		return ""
	}
	if len(p.VisualPrompt.Slides) > 0 {
		if s := p.VisualPrompt.Slides[0]; s.FullPrompt != "" {
			return s.FullPrompt
		} else if s.ImagePrompt != "" {
			return s.ImagePrompt
		}
	}
	return p.IntentSummary
}

// Decode converts a repaired raw plan into the typed contract.
func Decode(raw map[string]any) (*ContentPlan, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	var plan ContentPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

// Encode renders the typed plan back into a raw map, the shape consumed by
// the revision call.
func Encode(plan *ContentPlan) (map[string]any, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return raw, nil
}

// MustMarshal panics on marshal failure. Reserved for values the service
// itself constructs.
func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
