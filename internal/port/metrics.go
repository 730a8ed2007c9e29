package port

import "time"

// Outcome labels recorded for synchronizer operations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// GalleryMetrics records synchronizer activity.
type GalleryMetrics interface {
	ObserveUpload(outcome string, elapsed time.Duration)
	ObserveReload(outcome string, elapsed time.Duration)
	SetImageCount(n int)
}
