package mediajob

import (
	"strings"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
)

// CanonicalStatus maps free-text vendor job vocabulary onto the closed
// canonical set. Unrecognized strings pass through verbatim so a vendor
// vocabulary change degrades to a diagnosable status instead of a crash.
func CanonicalStatus(vendor string) string {
	switch strings.ToLower(strings.TrimSpace(vendor)) {
	case "succeeded", "success", "done", "finished", "complete", "completed":
		return string(domain.UnitStatusCompleted)
	case "error", "failed", "failure", "cancelled", "canceled":
		return string(domain.UnitStatusFailed)
	case "queued", "running", "pending", "processing", "in_progress", "submitted":
		return string(domain.UnitStatusProcessing)
	default:
		return vendor
	}
}

// Canonical reports whether status belongs to the closed canonical set.
func Canonical(status string) bool {
	switch domain.UnitStatus(status) {
	case domain.UnitStatusProcessing, domain.UnitStatusCompleted, domain.UnitStatusFailed:
		return true
	}
	return false
}
