package widget

import (
	"time"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/verdict"
)

// Submission outcomes reported to the Observer
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "http_status"
	OutcomeService   = "service_error"
	OutcomeNetwork   = "network_error"
	OutcomeFailed    = "failed"
	OutcomeCanceled  = "canceled"
	OutcomeDiscarded = "stale"
)

// Observer receives widget events, typically for metrics
type Observer interface {
	Rejected(kind media.Kind, reason media.Reason)
	Submitted(kind media.Kind, outcome string, elapsed time.Duration)
	Classified(kind media.Kind, v verdict.Verdict)
	PreviewCreated()
	PreviewReleased()
}

type nopObserver struct{}

func (nopObserver) Rejected(media.Kind, media.Reason)           {}
func (nopObserver) Submitted(media.Kind, string, time.Duration) {}
func (nopObserver) Classified(media.Kind, verdict.Verdict)      {}
func (nopObserver) PreviewCreated()                             {}
func (nopObserver) PreviewReleased()                            {}
