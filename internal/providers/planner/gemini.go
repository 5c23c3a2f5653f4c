package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini implements PlanService against the Gemini generateContent API with
// a JSON-only response mime type.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const geminiDefaultTimeout = 45 * time.Second

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGemini(opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("planner: gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &Gemini{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *Gemini) GeneratePlan(ctx context.Context, brief domain.GenerationBrief) (map[string]any, error) {
	return g.generate(ctx, buildGenerationPrompt(brief), 0.6)
}

func (g *Gemini) RevisePlan(ctx context.Context, plan map[string]any, violations []string, brandContext string) (map[string]any, error) {
	prompt, err := buildRevisionPrompt(plan, violations, brandContext)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, prompt, 0.3)
}

func (g *Gemini) generate(ctx context.Context, prompt string, temperature float64) (map[string]any, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      temperature,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("planner: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return nil, fmt.Errorf("planner: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("planner: %w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("planner: %w: status %d", domain.ErrUpstreamAuth, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("planner: %w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("planner: %w: decode response: %v", domain.ErrProviderFailure, err)
	}
	text := extractText(out)
	if text == "" {
		return nil, fmt.Errorf("planner: %w: empty candidate text", domain.ErrProviderFailure)
	}
	plan, err := parsePlanPayload(text)
	if err != nil {
		return nil, fmt.Errorf("planner: %w: %v", domain.ErrProviderFailure, err)
	}
	return plan, nil
}

func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func buildGenerationPrompt(brief domain.GenerationBrief) string {
	sb := &strings.Builder{}
	sb.WriteString("You are a social media content strategist. Respond strictly with one JSON object matching this schema: ")
	sb.WriteString(planSchemaDescription)
	fmt.Fprintf(sb, "\nUser request: %q.", brief.RawInput)
	if brief.IntentHints.ContentGoal != "" {
		fmt.Fprintf(sb, " Content goal: %q.", brief.IntentHints.ContentGoal)
	}
	if brief.IntentHints.PrimaryPlatform != "" {
		fmt.Fprintf(sb, " Primary platform: %q.", brief.IntentHints.PrimaryPlatform)
	}
	if brief.BrandSummary != "" {
		fmt.Fprintf(sb, "\nBrand context: %s", brief.BrandSummary)
	}
	if brief.AssetContext != "" {
		fmt.Fprintf(sb, "\nAvailable assets: %s", brief.AssetContext)
	}
	if brief.HistorySummary != "" {
		fmt.Fprintf(sb, "\nRecent posts (avoid repeating): %s", brief.HistorySummary)
	}
	fmt.Fprintf(sb, "\nTarget platforms: %s. Content type: %s. Media type: %s. Aspect ratio: %s.",
		strings.Join(brief.PlatformTargets, ", "), brief.ContentType, brief.MediaType, brief.AspectRatio)
	return sb.String()
}

func buildRevisionPrompt(plan map[string]any, violations []string, brandContext string) (string, error) {
	encoded, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("planner: encode plan for revision: %w", err)
	}
	sb := &strings.Builder{}
	sb.WriteString("You are a brand compliance editor. The content plan below violates brand guardrails. ")
	sb.WriteString("Fix ONLY the violated fields, keep everything else byte-for-byte, and respond strictly with the corrected JSON object matching this schema: ")
	sb.WriteString(planSchemaDescription)
	fmt.Fprintf(sb, "\nViolations:\n- %s", strings.Join(violations, "\n- "))
	if brandContext != "" {
		fmt.Fprintf(sb, "\nBrand context: %s", brandContext)
	}
	fmt.Fprintf(sb, "\nCurrent plan:\n%s", encoded)
	return sb.String(), nil
}

var _ PlanService = (*Gemini)(nil)
