package brand

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

type fakeBrandRepo struct {
	profile *domain.BrandProfile
	err     error
}

func (f *fakeBrandRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.BrandProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeCache struct {
	entries map[string][]byte
	sets    int
	gets    int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.sets++
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.gets++
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func testProfile() *domain.BrandProfile {
	return &domain.BrandProfile{
		OwnerID:            "owner-1",
		Name:               "acme coffee",
		Voice:              "warm and direct",
		ToneWords:          []string{"friendly", "confident"},
		Audience:           "young professionals",
		PreferredPlatforms: []string{"instagram", "tiktok"},
		ForbiddenPhrases:   []string{"guaranteed results"},
		MinCaptionWords:    10,
		MaxCaptionWords:    60,
		MaxHashtags:        8,
	}
}

func TestLoadMissingProfileReturnsNil(t *testing.T) {
	loader := NewLoader(&fakeBrandRepo{err: domain.ErrNotFound}, nil, zerolog.New(io.Discard))
	profile, err := loader.Load(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if profile != nil {
		t.Fatal("expected nil profile when none is configured")
	}
}

func TestLoadRepoFailureSurfaces(t *testing.T) {
	loader := NewLoader(&fakeBrandRepo{err: errors.New("db down")}, nil, zerolog.New(io.Discard))
	if _, err := loader.Load(context.Background(), "owner-1"); err == nil {
		t.Fatal("expected repo error to surface")
	}
}

func TestSummarizeContent(t *testing.T) {
	summary := Summarize(testProfile())
	for _, want := range []string{
		"Brand: Acme Coffee.",
		"Voice: warm and direct.",
		"Tone: friendly, confident.",
		"Never say: guaranteed results.",
		"Captions 10-60 words, at most 8 hashtags.",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary %q missing %q", summary, want)
		}
	}
}

func TestSummarizeNilProfileIsEmpty(t *testing.T) {
	if got := Summarize(nil); got != "" {
		t.Fatalf("Summarize(nil) = %q, want empty", got)
	}
}

func TestSummaryUsesCache(t *testing.T) {
	c := newFakeCache()
	loader := NewLoader(&fakeBrandRepo{}, c, zerolog.New(io.Discard))
	profile := testProfile()

	first := loader.Summary(context.Background(), profile)
	second := loader.Summary(context.Background(), profile)
	if first != second {
		t.Fatalf("summaries differ: %q vs %q", first, second)
	}
	if c.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", c.sets)
	}
}
