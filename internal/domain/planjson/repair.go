package planjson

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Platform hashtag caps applied when platform_sets must be derived.
var platformHashtagCaps = map[string]int{
	"instagram": 30,
	"tiktok":    5,
	"linkedin":  7,
	"x":         3,
}

const defaultGuardrailNotes = "Default - not checked."

var requiredStringFields = []string{
	"intent_summary",
	"content_goal",
	"primary_platform",
	"content_type",
}

// Repair accepts an arbitrary, possibly malformed object asserted to be a
// ContentPlan and makes it structurally valid in place. Every repair appends
// one human-readable entry to the returned log; none is silent. Repair is
// idempotent: running it on its own output yields an empty log.
//
// The checks are independent (each touches only its own field) and applied
// in a fixed order so the log reads deterministically.
func Repair(raw map[string]any) (map[string]any, []string) {
	if raw == nil {
		raw = map[string]any{}
	}
	var log []string
	repaired := func(format string, args ...any) {
		log = append(log, fmt.Sprintf(format, args...))
	}

	// 1. Required top-level strings.
	for _, field := range requiredStringFields {
		if _, ok := raw[field].(string); !ok {
			raw[field] = ""
			repaired("%s missing or not a string; defaulted to empty", field)
		}
	}

	// 2. Platforms list.
	if list, ok := raw["platforms"].([]any); ok {
		cleaned := stringItems(list)
		if len(cleaned) != len(list) {
			raw["platforms"] = toAnySlice(cleaned)
			repaired("platforms contained non-string entries; %d kept", len(cleaned))
		}
	} else if _, ok := raw["platforms"].([]string); !ok {
		raw["platforms"] = []any{"instagram"}
		repaired("platforms missing or not an array; defaulted to [instagram]")
	}

	// 3-5. SEO block.
	seo, ok := raw["seo"].(map[string]any)
	if !ok {
		seo = map[string]any{}
		raw["seo"] = seo
	}
	score, numeric := asNumber(seo["score"])
	if !numeric {
		score = 0
		seo["score"] = float64(0)
		repaired("seo.score missing or not numeric; defaulted to 0")
	}
	category := scoreCategory(score)
	if current, _ := seo["score_category"].(string); !canonicalCategory(current) {
		seo["score_category"] = category
		repaired("seo.score_category %q not canonical; recomputed as %s", current, category)
	}
	if breakdown, ok := seo["score_breakdown"].(map[string]any); ok {
		if repairLine := normalizeBreakdown(breakdown); repairLine != "" {
			repaired("%s", repairLine)
		}
	}
	if _, ok := seo["improvement_report"].([]any); !ok {
		seo["improvement_report"] = []any{}
		repaired("seo.improvement_report missing; defaulted to empty list")
	}

	// 6. Carousel synthesis.
	contentType, _ := raw["content_type"].(string)
	if contentType == "carousel" {
		if _, ok := raw["carousel"].(map[string]any); !ok {
			intent, _ := raw["intent_summary"].(string)
			raw["carousel"] = defaultCarousel(intent)
			repaired("content_type is carousel but carousel missing; synthesized 3-slide default")
		}
	}

	// 7. Visual prompt slides. A carousel must carry exactly one visual slide
	// per carousel slide; without one the renderer has no prompt to draw.
	visual, ok := raw["visual_prompt"].(map[string]any)
	if !ok {
		visual = map[string]any{"global_style": "", "aspect_ratio": ""}
		raw["visual_prompt"] = visual
	}
	existingSlides, _ := visual["slides"].([]any)
	if want := carouselSlideCount(raw); want > 0 {
		if len(existingSlides) != want {
			visual["slides"] = reconcileVisualSlides(existingSlides, raw, want)
			repaired("visual_prompt.slides had %d entries for %d carousel slides; reconciled", len(existingSlides), want)
		}
	} else if len(existingSlides) == 0 {
		visual["slides"] = deriveVisualSlides(raw)
		repaired("visual_prompt.slides empty; derived %d slide(s)", len(visual["slides"].([]any)))
	}

	// 8. Hashtag platform sets.
	hashtags, ok := raw["hashtags"].(map[string]any)
	if !ok {
		hashtags = map[string]any{}
		raw["hashtags"] = hashtags
	}
	var missingGroups []string
	for _, group := range []string{"primary", "niche", "trending", "brand"} {
		list, ok := hashtags[group].([]any)
		if !ok {
			if _, ok := hashtags[group].([]string); !ok {
				hashtags[group] = []any{}
				missingGroups = append(missingGroups, group)
			}
			continue
		}
		cleaned := stringItems(list)
		if len(cleaned) != len(list) {
			hashtags[group] = toAnySlice(cleaned)
			repaired("hashtags.%s contained non-string entries; %d kept", group, len(cleaned))
		}
	}
	if len(missingGroups) > 0 {
		repaired("hashtag groups %s missing; defaulted to empty arrays", strings.Join(missingGroups, ", "))
	}
	if _, ok := hashtags["platform_sets"].(map[string]any); !ok {
		hashtags["platform_sets"] = derivePlatformSets(hashtags)
		repaired("hashtags.platform_sets missing; derived per-platform capped sets")
	}

	// 9. Guardrails check stub.
	if _, ok := raw["guardrails_check"].(map[string]any); !ok {
		raw["guardrails_check"] = map[string]any{
			"pass":       true,
			"violations": []any{},
			"notes":      defaultGuardrailNotes,
		}
		repaired("guardrails_check missing; defaulted to passing stub")
	}

	// 10. Caption and title sub-fields.
	caption, ok := raw["caption"].(map[string]any)
	if !ok {
		caption = map[string]any{}
		raw["caption"] = caption
	}
	for _, field := range []string{"primary", "hook", "cta"} {
		if _, ok := caption[field].(string); !ok {
			caption[field] = ""
			repaired("caption.%s missing; defaulted to empty", field)
		}
	}
	if _, ok := caption["platform_overrides"].(map[string]any); !ok {
		caption["platform_overrides"] = map[string]any{}
		repaired("caption.platform_overrides missing; defaulted to empty map")
	}
	title, ok := raw["title"].(map[string]any)
	if !ok {
		title = map[string]any{}
		raw["title"] = title
	}
	if _, ok := title["generic"].(string); !ok {
		title["generic"] = ""
		repaired("title.generic missing; defaulted to empty")
	}
	if _, ok := title["platform_overrides"].(map[string]any); !ok {
		title["platform_overrides"] = map[string]any{}
		repaired("title.platform_overrides missing; defaulted to empty map")
	}

	return raw, log
}

// Validate repairs the raw plan and decodes it into the typed contract.
func Validate(raw map[string]any) (*ContentPlan, []string, error) {
	raw, log := Repair(raw)
	plan, err := Decode(raw)
	if err != nil {
		return nil, log, err
	}
	return plan, log, nil
}

func scoreCategory(score float64) string {
	switch {
	case score <= 39:
		return "Poor"
	case score <= 59:
		return "Ok"
	case score <= 79:
		return "Good"
	default:
		return "Great"
	}
}

func canonicalCategory(category string) bool {
	switch category {
	case "Poor", "Ok", "Good", "Great":
		return true
	}
	return false
}

// normalizeBreakdown rescales dimension scores so they sum to at most 100
// while preserving relative weighting. Returns a log line when a repair was
// applied, empty otherwise.
func normalizeBreakdown(breakdown map[string]any) string {
	type dim struct {
		name  string
		entry map[string]any
		score float64
	}
	var dims []dim
	var sum float64
	for name, v := range breakdown {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		score, ok := asNumber(entry["score"])
		if !ok {
			continue
		}
		dims = append(dims, dim{name: name, entry: entry, score: score})
		sum += score
	}
	if sum <= 100 || len(dims) == 0 {
		return ""
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i].score > dims[j].score })
	factor := 100 / sum
	var scaledSum float64
	for i := range dims {
		scaled := math.Round(dims[i].score * factor)
		dims[i].entry["score"] = scaled
		dims[i].score = scaled
		scaledSum += scaled
	}
	// Rounding may leave the total a point or two over; charge the excess to
	// the largest dimension so the invariant holds.
	if scaledSum > 100 {
		dims[0].entry["score"] = dims[0].score - (scaledSum - 100)
	}
	return fmt.Sprintf("seo.score_breakdown summed to %.0f; rescaled to a 100-point budget", sum)
}

func defaultCarousel(intent string) map[string]any {
	theme := strings.TrimSpace(intent)
	if theme == "" {
		theme = "general content"
	}
	purposes := []struct {
		purpose  string
		headline string
		body     string
	}{
		{"hook", "Stop scrolling", fmt.Sprintf("Open strong on %s.", theme)},
		{"solution", "Here is how", fmt.Sprintf("Walk through the core of %s.", theme)},
		{"cta", "Your move", fmt.Sprintf("Invite action on %s.", theme)},
	}
	slides := make([]any, 0, len(purposes))
	for i, p := range purposes {
		slides = append(slides, map[string]any{
			"index":        i,
			"purpose":      p.purpose,
			"headline":     p.headline,
			"body":         p.body,
			"image_prompt": fmt.Sprintf("%s slide illustrating %s", p.purpose, theme),
		})
	}
	return map[string]any{
		"slide_count": len(purposes),
		"theme":       theme,
		"slides":      slides,
	}
}

func carouselSlideCount(raw map[string]any) int {
	carousel, ok := raw["carousel"].(map[string]any)
	if !ok {
		return 0
	}
	slides, ok := carousel["slides"].([]any)
	if !ok {
		return 0
	}
	return len(slides)
}

// reconcileVisualSlides keeps the visual slides the model did produce and
// fills the remainder from the carousel slide prompts, truncating any extras,
// so both lists end up the same length.
func reconcileVisualSlides(existing []any, raw map[string]any, want int) []any {
	derived := deriveVisualSlides(raw)
	out := make([]any, 0, want)
	for i := 0; i < want; i++ {
		if i < len(existing) {
			out = append(out, existing[i])
			continue
		}
		out = append(out, derived[i])
	}
	return out
}

func deriveVisualSlides(raw map[string]any) []any {
	if carousel, ok := raw["carousel"].(map[string]any); ok {
		if slides, ok := carousel["slides"].([]any); ok && len(slides) > 0 {
			out := make([]any, 0, len(slides))
			for i, s := range slides {
				prompt := ""
				if slide, ok := s.(map[string]any); ok {
					prompt, _ = slide["image_prompt"].(string)
				}
				out = append(out, map[string]any{
					"index":        i,
					"image_prompt": prompt,
					"full_prompt":  prompt,
				})
			}
			return out
		}
	}
	prompt, _ := raw["intent_summary"].(string)
	return []any{map[string]any{
		"index":        0,
		"image_prompt": prompt,
		"full_prompt":  prompt,
	}}
}

func derivePlatformSets(hashtags map[string]any) map[string]any {
	var union []string
	seen := map[string]struct{}{}
	for _, group := range []string{"primary", "niche", "brand"} {
		for _, tag := range anyStrings(hashtags[group]) {
			key := strings.ToLower(strings.TrimSpace(tag))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			union = append(union, tag)
		}
	}
	sets := map[string]any{}
	for platform, limit := range platformHashtagCaps {
		n := len(union)
		if n > limit {
			n = limit
		}
		sets[platform] = toAnySlice(union[:n])
	}
	return sets
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func anyStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		return stringItems(list)
	}
	return nil
}

func stringItems(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
