package brand

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/cache"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
)

const summaryTTL = 10 * time.Minute

// Loader reads a user's brand configuration and condenses it into the
// compact text summary consumed by every downstream generation stage.
type Loader struct {
	repo   domain.BrandRepository
	cache  cache.Cache
	logger infra.Logger
}

func NewLoader(repo domain.BrandRepository, c cache.Cache, logger infra.Logger) *Loader {
	return &Loader{repo: repo, cache: c, logger: logger}
}

// Load returns the owner's brand profile, or (nil, nil) when none is
// configured. Downstream stages treat a nil profile as "no brand": the
// quality gate becomes a no-op and briefs carry an empty brand summary.
func (l *Loader) Load(ctx context.Context, ownerID string) (*domain.BrandProfile, error) {
	profile, err := l.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load brand profile: %w", err)
	}
	return profile, nil
}

// Summary condenses the profile into one paragraph. Results are cached per
// owner; cache failures degrade to recomputation.
func (l *Loader) Summary(ctx context.Context, profile *domain.BrandProfile) string {
	if profile == nil {
		return ""
	}
	if l.cache != nil {
		if cached, ok, err := l.cache.Get(ctx, cache.BrandSummaryKey(profile.OwnerID)); err == nil && ok {
			return string(cached)
		}
	}
	summary := Summarize(profile)
	if l.cache != nil {
		if err := l.cache.Set(ctx, cache.BrandSummaryKey(profile.OwnerID), []byte(summary), summaryTTL); err != nil {
			l.logger.Warn().Err(err).Str("owner_id", profile.OwnerID).Msg("brand: summary cache write failed")
		}
	}
	return summary
}

// Summarize builds the compact brand summary without touching the cache.
func Summarize(profile *domain.BrandProfile) string {
	if profile == nil {
		return ""
	}
	titler := cases.Title(language.Und)
	sb := &strings.Builder{}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "the brand"
	}
	fmt.Fprintf(sb, "Brand: %s.", titler.String(name))
	if v := strings.TrimSpace(profile.Voice); v != "" {
		fmt.Fprintf(sb, " Voice: %s.", v)
	}
	if len(profile.ToneWords) > 0 {
		fmt.Fprintf(sb, " Tone: %s.", strings.Join(profile.ToneWords, ", "))
	}
	if a := strings.TrimSpace(profile.Audience); a != "" {
		fmt.Fprintf(sb, " Audience: %s.", a)
	}
	if n := strings.TrimSpace(profile.Niche); n != "" {
		fmt.Fprintf(sb, " Niche: %s.", n)
	}
	if len(profile.PreferredPlatforms) > 0 {
		fmt.Fprintf(sb, " Platforms: %s.", strings.Join(profile.PreferredPlatforms, ", "))
	}
	if len(profile.ForbiddenPhrases) > 0 {
		fmt.Fprintf(sb, " Never say: %s.", strings.Join(profile.ForbiddenPhrases, "; "))
	}
	if profile.MaxCaptionWords > 0 {
		fmt.Fprintf(sb, " Captions %d-%d words, at most %d hashtags.",
			profile.MinCaptionWords, profile.MaxCaptionWords, profile.MaxHashtags)
	}
	return sb.String()
}
