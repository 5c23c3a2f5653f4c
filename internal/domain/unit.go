package domain

import "time"

// MediaType enumerates renderable media kinds.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// UnitStatus is the canonical lifecycle state shared by generation units and
// the video jobs that back them. Vendor-specific vocabularies are normalized
// into this set before persistence.
type UnitStatus string

const (
	UnitStatusProcessing UnitStatus = "processing"
	UnitStatusCompleted  UnitStatus = "completed"
	UnitStatusFailed     UnitStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s UnitStatus) Terminal() bool {
	return s == UnitStatusCompleted || s == UnitStatusFailed
}

// GenerationUnit is one persisted renderable asset record. Units are created
// in bulk for carousels (sharing a batch id) or singly, and are mutated only
// by the orchestrator and the media job tracker.
type GenerationUnit struct {
	ID                 string
	OwnerID            string
	Prompt             string
	MediaType          MediaType
	Status             UnitStatus
	StoragePath        string
	ErrorMessage       string
	BatchID            string
	BatchIndex         int
	CarouselSlideIndex int
	CarouselSlideTotal int
	VideoJobID         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// VideoJob is the tracker's view of an asynchronous render job.
type VideoJob struct {
	JobID    string
	Status   UnitStatus
	Progress int
	AssetURL string
	Message  string
}
