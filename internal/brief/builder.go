package brief

import (
	"strings"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

const (
	defaultPlatform  = "instagram"
	storyAspectRatio = "9:16"
)

// BuildInput collects everything the caller knows about the request. Missing
// pieces pass through as empty strings; Build never fails.
type BuildInput struct {
	RawInput       string
	Clarifications domain.IntentHints
	BrandSummary   string
	BrandPlatforms []string
	AssetContext   string
	HistorySummary string
	ContentType    string
	MediaType      domain.MediaType
	AspectRatio    string
}

// Build assembles the immutable generation brief. Pure function, no I/O.
func Build(in BuildInput) domain.GenerationBrief {
	aspect := strings.TrimSpace(in.AspectRatio)
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	// Stories are always rendered vertical regardless of the caller's
	// ratio. Hard business rule, not a default.
	if contentType == "story" {
		aspect = storyAspectRatio
	}
	if aspect == "" {
		aspect = "1:1"
	}

	mediaType := in.MediaType
	if mediaType != domain.MediaTypeVideo {
		mediaType = domain.MediaTypeImage
	}

	return domain.GenerationBrief{
		RawInput: strings.TrimSpace(in.RawInput),
		IntentHints: domain.IntentHints{
			ContentGoal:     strings.TrimSpace(in.Clarifications.ContentGoal),
			PrimaryPlatform: strings.TrimSpace(in.Clarifications.PrimaryPlatform),
		},
		BrandSummary:    in.BrandSummary,
		AssetContext:    strings.TrimSpace(in.AssetContext),
		HistorySummary:  strings.TrimSpace(in.HistorySummary),
		PlatformTargets: platformTargets(in.Clarifications.PrimaryPlatform, in.BrandPlatforms),
		ContentType:     contentType,
		MediaType:       mediaType,
		AspectRatio:     aspect,
	}
}

// platformTargets unions the clarification answer with the brand's preferred
// platforms, falling back to a single baseline platform when both are empty.
func platformTargets(clarified string, brandPlatforms []string) []string {
	seen := map[string]struct{}{}
	var targets []string
	add := func(platform string) {
		platform = strings.ToLower(strings.TrimSpace(platform))
		if platform == "" {
			return
		}
		if _, ok := seen[platform]; ok {
			return
		}
		seen[platform] = struct{}{}
		targets = append(targets, platform)
	}
	add(clarified)
	for _, p := range brandPlatforms {
		add(p)
	}
	if len(targets) == 0 {
		targets = []string{defaultPlatform}
	}
	return targets
}
