package planjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFromJSON(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestRepairEmptyObjectFillsEveryRequiredField(t *testing.T) {
	raw, log := Repair(map[string]any{})
	require.NotEmpty(t, log)

	plan, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"instagram"}, plan.Platforms)
	assert.Equal(t, "Poor", plan.SEO.ScoreCategory)
	assert.Zero(t, plan.SEO.Score)
	assert.True(t, plan.GuardrailsCheck.Pass)
	assert.Equal(t, defaultGuardrailNotes, plan.GuardrailsCheck.Notes)
	assert.Len(t, plan.VisualPrompt.Slides, 1)
	assert.NotNil(t, plan.Caption.PlatformOverrides)
	assert.NotNil(t, plan.Title.PlatformOverrides)
}

func TestRepairIsIdempotent(t *testing.T) {
	raw := rawFromJSON(t, `{
		"intent_summary": "launch a sneaker drop",
		"content_type": "carousel",
		"seo": {"score": "not a number", "score_breakdown": {
			"keywords": {"score": 80, "max": 40, "rationale": "dense"},
			"readability": {"score": 60, "max": 30, "rationale": "clear"}
		}},
		"hashtags": {"primary": ["#sneakers", 42, "#drop"]}
	}`)

	first, firstLog := Repair(raw)
	require.NotEmpty(t, firstLog)

	_, secondLog := Repair(first)
	assert.Empty(t, secondLog, "second repair pass must be a no-op, got: %v", secondLog)
}

func TestRepairScoreCategoryThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "Poor"},
		{39, "Poor"},
		{40, "Ok"},
		{59, "Ok"},
		{60, "Good"},
		{79, "Good"},
		{80, "Great"},
		{100, "Great"},
	}
	for _, tc := range cases {
		raw, _ := Repair(map[string]any{"seo": map[string]any{"score": tc.score}})
		seo := raw["seo"].(map[string]any)
		assert.Equal(t, tc.want, seo["score_category"], "score %v", tc.score)
	}
}

func TestRepairKeepsCanonicalCategoryEvenWhenStale(t *testing.T) {
	raw, log := Repair(map[string]any{"seo": map[string]any{"score": float64(90), "score_category": "Poor"}})
	seo := raw["seo"].(map[string]any)
	assert.Equal(t, "Poor", seo["score_category"])
	for _, entry := range log {
		assert.NotContains(t, entry, "score_category")
	}
}

func TestRepairNormalizesOversizedBreakdown(t *testing.T) {
	raw := rawFromJSON(t, `{"seo": {"score": 70, "score_breakdown": {
		"keywords": {"score": 90, "max": 40, "rationale": ""},
		"readability": {"score": 60, "max": 30, "rationale": ""},
		"cta": {"score": 50, "max": 30, "rationale": ""}
	}}}`)

	repairedRaw, log := Repair(raw)
	require.NotEmpty(t, log)

	breakdown := repairedRaw["seo"].(map[string]any)["score_breakdown"].(map[string]any)
	var sum float64
	scores := map[string]float64{}
	for name, v := range breakdown {
		score := v.(map[string]any)["score"].(float64)
		scores[name] = score
		sum += score
	}
	assert.LessOrEqual(t, sum, float64(100))
	// Relative weighting preserved within rounding.
	assert.Greater(t, scores["keywords"], scores["readability"])
	assert.Greater(t, scores["readability"], scores["cta"])
}

func TestRepairBreakdownWithinBudgetUntouched(t *testing.T) {
	raw := rawFromJSON(t, `{"seo": {"score": 70, "score_breakdown": {
		"keywords": {"score": 40, "max": 40, "rationale": ""},
		"readability": {"score": 30, "max": 30, "rationale": ""}
	}}}`)
	repairedRaw, _ := Repair(raw)
	breakdown := repairedRaw["seo"].(map[string]any)["score_breakdown"].(map[string]any)
	assert.Equal(t, float64(40), breakdown["keywords"].(map[string]any)["score"])
	assert.Equal(t, float64(30), breakdown["readability"].(map[string]any)["score"])
}

func TestRepairSynthesizesCarousel(t *testing.T) {
	raw, _ := Repair(map[string]any{
		"intent_summary": "meal prep for busy parents",
		"content_type":   "carousel",
	})
	plan, err := Decode(raw)
	require.NoError(t, err)
	require.NotNil(t, plan.Carousel)
	require.Len(t, plan.Carousel.Slides, 3)
	assert.Equal(t, 3, plan.Carousel.SlideCount)
	assert.Equal(t, "hook", plan.Carousel.Slides[0].Purpose)
	assert.Equal(t, "solution", plan.Carousel.Slides[1].Purpose)
	assert.Equal(t, "cta", plan.Carousel.Slides[2].Purpose)
	assert.Equal(t, "meal prep for busy parents", plan.Carousel.Theme)

	// Visual prompt slides derived one per carousel slide.
	require.Len(t, plan.VisualPrompt.Slides, 3)
	for i, slide := range plan.VisualPrompt.Slides {
		assert.Equal(t, i, slide.Index)
		assert.Equal(t, slide.ImagePrompt, slide.FullPrompt)
	}
}

func TestRepairPadsShortVisualSlideList(t *testing.T) {
	raw := rawFromJSON(t, `{
		"intent_summary": "five ways to brew better coffee",
		"content_type": "carousel",
		"carousel": {"slide_count": 5, "theme": "brewing", "slides": [
			{"index": 0, "purpose": "hook", "headline": "h0", "body": "", "image_prompt": "p0"},
			{"index": 1, "purpose": "problem", "headline": "h1", "body": "", "image_prompt": "p1"},
			{"index": 2, "purpose": "solution", "headline": "h2", "body": "", "image_prompt": "p2"},
			{"index": 3, "purpose": "proof", "headline": "h3", "body": "", "image_prompt": "p3"},
			{"index": 4, "purpose": "cta", "headline": "h4", "body": "", "image_prompt": "p4"}
		]},
		"visual_prompt": {"global_style": "flat", "aspect_ratio": "4:5", "slides": [
			{"index": 0, "image_prompt": "custom zero", "full_prompt": "custom zero"},
			{"index": 1, "image_prompt": "custom one", "full_prompt": "custom one"}
		]}
	}`)

	repairedRaw, log := Repair(raw)
	plan, err := Decode(repairedRaw)
	require.NoError(t, err)
	require.NotNil(t, plan.Carousel)
	require.Len(t, plan.VisualPrompt.Slides, len(plan.Carousel.Slides))

	// The slides the model did produce survive; the rest come from the
	// carousel prompts.
	assert.Equal(t, "custom zero", plan.VisualPrompt.Slides[0].ImagePrompt)
	assert.Equal(t, "custom one", plan.VisualPrompt.Slides[1].ImagePrompt)
	assert.Equal(t, "p2", plan.VisualPrompt.Slides[2].ImagePrompt)
	assert.Equal(t, "p4", plan.VisualPrompt.Slides[4].ImagePrompt)

	var logged bool
	for _, entry := range log {
		if entry == "visual_prompt.slides had 2 entries for 5 carousel slides; reconciled" {
			logged = true
		}
	}
	assert.True(t, logged, "reconciliation must be logged, got: %v", log)

	_, secondLog := Repair(repairedRaw)
	assert.Empty(t, secondLog, "second repair pass must be a no-op, got: %v", secondLog)
}

func TestRepairTruncatesOverlongVisualSlideList(t *testing.T) {
	raw := rawFromJSON(t, `{
		"intent_summary": "desk setup tour",
		"content_type": "carousel",
		"carousel": {"slide_count": 2, "theme": "desks", "slides": [
			{"index": 0, "purpose": "hook", "headline": "h0", "body": "", "image_prompt": "p0"},
			{"index": 1, "purpose": "cta", "headline": "h1", "body": "", "image_prompt": "p1"}
		]},
		"visual_prompt": {"global_style": "", "aspect_ratio": "", "slides": [
			{"index": 0, "image_prompt": "a", "full_prompt": "a"},
			{"index": 1, "image_prompt": "b", "full_prompt": "b"},
			{"index": 2, "image_prompt": "c", "full_prompt": "c"}
		]}
	}`)

	repairedRaw, log := Repair(raw)
	require.NotEmpty(t, log)
	plan, err := Decode(repairedRaw)
	require.NoError(t, err)
	require.Len(t, plan.VisualPrompt.Slides, 2)
	assert.Equal(t, "a", plan.VisualPrompt.Slides[0].ImagePrompt)
	assert.Equal(t, "b", plan.VisualPrompt.Slides[1].ImagePrompt)
}

func TestRepairDerivesPlatformSetsWithCaps(t *testing.T) {
	tags := make([]any, 0, 40)
	for i := 0; i < 40; i++ {
		tags = append(tags, "#tag"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	raw, _ := Repair(map[string]any{"hashtags": map[string]any{"primary": tags}})
	sets := raw["hashtags"].(map[string]any)["platform_sets"].(map[string]any)

	assert.Len(t, sets["instagram"], 30)
	assert.Len(t, sets["tiktok"], 5)
	assert.Len(t, sets["linkedin"], 7)
	assert.Len(t, sets["x"], 3)
}

func TestRepairPlatformSetsUnionDeduplicates(t *testing.T) {
	raw, _ := Repair(map[string]any{"hashtags": map[string]any{
		"primary": []any{"#go", "#golang"},
		"niche":   []any{"#GO", "#backend"},
		"brand":   []any{"#acme"},
	}})
	sets := raw["hashtags"].(map[string]any)["platform_sets"].(map[string]any)
	instagram := sets["instagram"].([]any)
	assert.Len(t, instagram, 4, "union of primary+niche+brand minus case-insensitive dupes")
}

func TestValidateDecodesRepairedPlan(t *testing.T) {
	plan, log, err := Validate(rawFromJSON(t, `{"intent_summary": "coffee launch", "content_type": "single"}`))
	require.NoError(t, err)
	require.NotEmpty(t, log)
	assert.Equal(t, "coffee launch", plan.IntentSummary)
	assert.Equal(t, "coffee launch", plan.PrimaryVisualPrompt())
}
