package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

// GeminiImageOptions configures the synchronous image generator.
type GeminiImageOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiImage renders images through the Gemini generateContent API and
// returns the inline image bytes.
type GeminiImage struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const geminiImageTimeout = 90 * time.Second

type geminiImageRequest struct {
	Contents []geminiImageContent `json:"contents"`
}

type geminiImageContent struct {
	Role  string            `json:"role,omitempty"`
	Parts []geminiImagePart `json:"parts,omitempty"`
}

type geminiImagePart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiImageResponse struct {
	Candidates []struct {
		Content geminiImageContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiImage(opts GeminiImageOptions) (*GeminiImage, error) {
	if opts.APIKey == "" {
		return nil, errors.New("render: gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiImageTimeout}
	}
	return &GeminiImage{apiKey: opts.APIKey, model: model, baseURL: baseURL, client: client}, nil
}

func (g *GeminiImage) Generate(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	prompt := req.Prompt
	if req.AspectRatio != "" {
		prompt = fmt.Sprintf("%s\nAspect ratio: %s.", prompt, req.AspectRatio)
	}
	if req.BrandContext != "" {
		prompt = fmt.Sprintf("%s\nBrand context: %s", prompt, req.BrandContext)
	}
	payload := geminiImageRequest{
		Contents: []geminiImageContent{{
			Role:  "user",
			Parts: []geminiImagePart{{Text: prompt}},
		}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("render: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("render: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render: %w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("render: %w: status %d", domain.ErrUpstreamAuth, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("render: %w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	var out geminiImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("render: %w: decode response: %v", domain.ErrProviderFailure, err)
	}
	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("render: %w: decode inline data: %v", domain.ErrProviderFailure, err)
			}
			format := part.InlineData.MimeType
			if format == "" {
				format = "image/png"
			}
			return &ImageAsset{Data: data, Format: format}, nil
		}
	}
	return nil, fmt.Errorf("render: %w: no image candidate in response", domain.ErrProviderFailure)
}

var _ ImageGenerator = (*GeminiImage)(nil)
