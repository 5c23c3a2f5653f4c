package render

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

// VeoOptions configures the asynchronous video render client.
type VeoOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Veo implements VideoRenderer against a job-based render API: submission
// returns a job handle, status polls return vendor-vocabulary states.
type Veo struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

const veoDefaultTimeout = 30 * time.Second

type veoSubmitRequest struct {
	Prompt       string `json:"prompt"`
	AspectRatio  string `json:"aspect_ratio,omitempty"`
	BrandContext string `json:"brand_context,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

type veoSubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type veoStatusResponse struct {
	Status   string `json:"status"`
	Progress *int   `json:"progress,omitempty"`
	AssetURL string `json:"asset_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

func NewVeo(opts VeoOptions) (*Veo, error) {
	if opts.APIKey == "" {
		return nil, errors.New("render: veo api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("render: veo base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: veoDefaultTimeout}
	}
	return &Veo{apiKey: opts.APIKey, baseURL: baseURL, client: client}, nil
}

func (v *Veo) Submit(ctx context.Context, req VideoRequest) (*JobHandle, error) {
	payload := veoSubmitRequest{
		Prompt:       req.Prompt,
		AspectRatio:  req.AspectRatio,
		BrandContext: req.BrandContext,
		RequestID:    req.RequestID,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("render: encode submit: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/jobs", &buf)
	if err != nil {
		return nil, fmt.Errorf("render: build submit: %w", err)
	}
	v.authorize(httpReq)
	resp, err := v.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render: %w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := v.checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	var out veoSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("render: %w: decode submit response: %v", domain.ErrProviderFailure, err)
	}
	if out.JobID == "" {
		return nil, fmt.Errorf("render: %w: submit response missing job_id", domain.ErrProviderFailure)
	}
	return &JobHandle{JobID: out.JobID, Status: out.Status}, nil
}

func (v *Veo) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	endpoint := fmt.Sprintf("%s/jobs/%s", v.baseURL, url.PathEscape(jobID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("render: build status: %w", err)
	}
	v.authorize(httpReq)
	resp, err := v.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render: %w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := v.checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	var out veoStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("render: %w: decode status response: %v", domain.ErrProviderFailure, err)
	}
	return &JobStatus{
		Status:   out.Status,
		Progress: out.Progress,
		AssetURL: out.AssetURL,
		Message:  out.Error,
	}, nil
}

func (v *Veo) authorize(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
}

func (v *Veo) checkStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("render: %w: status %d", domain.ErrUpstreamAuth, code)
	case code >= 300:
		return fmt.Errorf("render: %w: status %d", domain.ErrProviderFailure, code)
	}
	return nil
}

var _ VideoRenderer = (*Veo)(nil)
