package domain

import "time"

// BrandProfile holds a user's brand configuration. The profile is owned by
// the brand settings surface; this service only reads it.
type BrandProfile struct {
	ID                 string
	OwnerID            string
	Name               string
	Voice              string
	Audience           string
	Niche              string
	ToneWords          []string
	PreferredPlatforms []string
	ForbiddenPhrases   []string
	ContentRestriction []string
	MinCaptionWords    int
	MaxCaptionWords    int
	MaxHashtags        int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Guardrails extracts the quality-gate inputs from the profile.
func (p *BrandProfile) Guardrails() BrandGuardrails {
	if p == nil {
		return BrandGuardrails{}
	}
	return BrandGuardrails{
		ForbiddenPhrases:    p.ForbiddenPhrases,
		ContentRestrictions: p.ContentRestriction,
		MinCaptionWords:     p.MinCaptionWords,
		MaxCaptionWords:     p.MaxCaptionWords,
		MaxHashtags:         p.MaxHashtags,
	}
}

// BrandGuardrails is the read-only constraint set checked by the quality gate.
type BrandGuardrails struct {
	ForbiddenPhrases    []string
	ContentRestrictions []string
	MinCaptionWords     int
	MaxCaptionWords     int
	MaxHashtags         int
}
