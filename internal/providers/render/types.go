package render

import "context"

// ImageRequest describes a normalized request passed to any image provider.
type ImageRequest struct {
	Prompt       string
	AspectRatio  string
	BrandContext string
	RequestID    string
}

// ImageAsset is a synchronously rendered image.
type ImageAsset struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// ImageGenerator is the contract implemented by synchronous image providers.
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageRequest) (*ImageAsset, error)
}

// VideoRequest describes a render job submission.
type VideoRequest struct {
	Prompt       string
	AspectRatio  string
	BrandContext string
	RequestID    string
}

// JobHandle is returned on submission of an asynchronous render job.
type JobHandle struct {
	JobID  string
	Status string
}

// JobStatus is one poll response. Status carries the vendor's own vocabulary
// untouched; callers normalize it. Progress is nil when the vendor does not
// report granularity. AssetURL is an ephemeral download location, present
// only on success.
type JobStatus struct {
	Status   string
	Progress *int
	AssetURL string
	Message  string
}

// VideoRenderer is the contract implemented by asynchronous video providers.
type VideoRenderer interface {
	Submit(ctx context.Context, req VideoRequest) (*JobHandle, error)
	Status(ctx context.Context, jobID string) (*JobStatus, error)
}
