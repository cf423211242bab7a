package widget

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/verdict"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/classifier"
)

// MockClassifier is a mock implementation of Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(ctx context.Context, kind media.Kind, f *media.File) (*classifier.Response, error) {
	args := m.Called(ctx, kind, f)
	resp, _ := args.Get(0).(*classifier.Response)
	return resp, args.Error(1)
}

// recordingObserver keeps the events it receives
type recordingObserver struct {
	mu       sync.Mutex
	rejected []media.Reason
	outcomes []string
	verdicts []verdict.Verdict
	created  int
	released int
}

func (o *recordingObserver) Rejected(_ media.Kind, reason media.Reason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, reason)
}

func (o *recordingObserver) Submitted(_ media.Kind, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) Classified(_ media.Kind, v verdict.Verdict) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verdicts = append(o.verdicts, v)
}

func (o *recordingObserver) PreviewCreated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *recordingObserver) PreviewReleased() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.released++
}
