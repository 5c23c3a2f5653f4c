package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

// BrandRepositoryPG implements domain.BrandRepository. The profile table is
// written by the brand settings surface; this repository only reads it.
type BrandRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBrandRepository creates a new brand profile repository backed by PostgreSQL.
func NewBrandRepository(pool *pgxpool.Pool) *BrandRepositoryPG {
	return &BrandRepositoryPG{pool: pool}
}

// GetByOwner fetches the owner's brand profile.
func (r *BrandRepositoryPG) GetByOwner(ctx context.Context, ownerID string) (*domain.BrandProfile, error) {
	query := `
SELECT id, owner_id, name, voice, audience, niche, tone_words, preferred_platforms,
       forbidden_phrases, content_restrictions, min_caption_words, max_caption_words,
       max_hashtags, created_at, updated_at
FROM brand_profiles
WHERE owner_id = $1;
`
	row := r.pool.QueryRow(ctx, query, ownerID)
	var profile domain.BrandProfile
	if err := row.Scan(
		&profile.ID,
		&profile.OwnerID,
		&profile.Name,
		&profile.Voice,
		&profile.Audience,
		&profile.Niche,
		&profile.ToneWords,
		&profile.PreferredPlatforms,
		&profile.ForbiddenPhrases,
		&profile.ContentRestriction,
		&profile.MinCaptionWords,
		&profile.MaxCaptionWords,
		&profile.MaxHashtags,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
