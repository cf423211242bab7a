// Package widget implements the upload widget: file selection and
// validation, preview lifecycle, drag state, submission and the verdict
// shown for the last analysis.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/exif"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/notify"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/preview"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/verdict"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/classifier"
)

// PromptNoFile is the blocking prompt shown when submitting without a file
const PromptNoFile = "Please select a file first!"

var (
	ErrNoFile = errors.New("no file selected")
	ErrBusy   = errors.New("analysis already in progress")
	ErrClosed = errors.New("widget closed")
	ErrStale  = errors.New("file changed while analysis was in flight")
)

// Classifier sends a file for remote analysis
type Classifier interface {
	Predict(ctx context.Context, kind media.Kind, f *media.File) (*classifier.Response, error)
}

// Options configures a Widget
type Options struct {
	Kind       media.Kind
	Classifier Classifier
	Previews   preview.Store
	Notices    *notify.Center
	Observer   Observer
	Now        func() time.Time
}

// Result is the analysis outcome on display
type Result struct {
	Text    string
	Verdict verdict.Verdict
	// Authoritative is false when Text describes a failure
	Authoritative bool
	Err           error
}

// Widget owns the state of one upload widget instance
type Widget struct {
	classifier Classifier
	slot       *preview.Slot
	notices    *notify.Center
	observer   Observer
	now        func() time.Time

	mu         sync.Mutex
	kind       media.Kind
	file       *media.File
	details    *exif.Details
	dragActive bool
	loading    bool
	result     *Result
	prompt     string
	generation uint64
	lastActive time.Time
	closed     bool
}

// New creates a widget with no file selected
func New(opts Options) (*Widget, error) {
	if opts.Classifier == nil {
		return nil, errors.New("widget requires a classifier")
	}
	if opts.Previews == nil {
		return nil, errors.New("widget requires a preview store")
	}
	if opts.Kind == "" {
		opts.Kind = media.KindImage
	}
	if _, err := media.ParseKind(string(opts.Kind)); err != nil {
		return nil, err
	}
	if opts.Notices == nil {
		opts.Notices = notify.NewCenter(notify.DefaultTTL)
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Widget{
		classifier: opts.Classifier,
		slot:       preview.NewSlot(observedStore{Store: opts.Previews, obs: opts.Observer}),
		notices:    opts.Notices,
		observer:   opts.Observer,
		now:        opts.Now,
		kind:       opts.Kind,
		lastActive: opts.Now(),
	}, nil
}

// SelectKind switches the media kind. A selected file is removed.
func (w *Widget) SelectKind(ctx context.Context, k media.Kind) error {
	if _, err := media.ParseKind(string(k)); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.touch()

	w.kind = k
	if w.file != nil {
		w.removeLocked(ctx)
	}
	return nil
}

// SelectFile validates f against the current kind and makes it the selected file.
// A rejected file leaves the selection untouched.
func (w *Widget) SelectFile(ctx context.Context, f *media.File) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selectLocked(ctx, f)
}

// DragEnter marks the drop zone active
func (w *Widget) DragEnter() error {
	return w.setDrag(true)
}

// DragOver keeps the drop zone active
func (w *Widget) DragOver() error {
	return w.setDrag(true)
}

// DragLeave clears the drop zone highlight
func (w *Widget) DragLeave() error {
	return w.setDrag(false)
}

// Drop clears the drag state and selects the first dropped file
func (w *Widget) Drop(ctx context.Context, files []*media.File) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.dragActive = false
	if len(files) == 0 {
		if w.closed {
			return ErrClosed
		}
		return nil
	}
	for _, extra := range files[1:] {
		discard(extra)
	}

	return w.selectLocked(ctx, files[0])
}

// Submit sends the selected file for analysis and records the result.
// Failures are rendered as a non-authoritative Result rather than returned.
func (w *Widget) Submit(ctx context.Context) (*Result, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	w.touch()
	if w.file == nil {
		w.prompt = PromptNoFile
		w.mu.Unlock()
		return nil, ErrNoFile
	}
	if w.loading {
		w.mu.Unlock()
		return nil, ErrBusy
	}

	w.loading = true
	w.result = nil
	f, kind, gen := w.file, w.kind, w.generation
	w.mu.Unlock()

	logger.Info("Analyzing %s %s (%s)", kind, f.Name, humanize.Bytes(uint64(f.Size)))
	start := w.now()
	resp, err := w.classifier.Predict(ctx, kind, f)
	elapsed := w.now().Sub(start)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.loading = false

	if errors.Is(err, context.Canceled) {
		w.observer.Submitted(kind, OutcomeCanceled, elapsed)
		logger.Debug("Analysis of %s abandoned", f.Name)
		return nil, err
	}
	if w.closed || w.generation != gen {
		w.observer.Submitted(kind, OutcomeDiscarded, elapsed)
		logger.Debug("Dropping result for retired file %s", f.Name)
		return nil, ErrStale
	}

	outcome := outcomeOf(err)
	w.observer.Submitted(kind, outcome, elapsed)
	if err != nil {
		if classifier.IsNetworkError(err) {
			logger.Error("Analysis of %s failed: %v", f.Name, err)
		} else {
			logger.Warn("Analysis of %s failed: %v", f.Name, err)
		}
	}

	res := newResult(resp, err)
	w.result = res
	w.observer.Classified(kind, res.Verdict)
	logger.Info("Analysis of %s finished in %s: %s", f.Name, elapsed.Round(time.Millisecond), res.Verdict)

	return res, nil
}

// Remove clears the selected file, its preview and any displayed result
func (w *Widget) Remove(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.touch()
	w.removeLocked(ctx)
	return nil
}

// DismissPrompt closes the blocking prompt
func (w *Widget) DismissPrompt() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.prompt = ""
}

// Close tears the widget down, releasing the preview and the selected file.
// Later operations return ErrClosed.
func (w *Widget) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.removeLocked(ctx)
	w.notices.Close()
	w.closed = true
	return nil
}

// LastActive returns when the widget last handled a user operation
func (w *Widget) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastActive
}

// View returns a snapshot of the state for rendering
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Kind:       w.kind,
		Preview:    w.slot.Current(),
		DragActive: w.dragActive,
		Loading:    w.loading,
		Prompt:     w.prompt,
		Notices:    w.notices.Active(),
	}
	if w.file != nil {
		v.File = &FileView{
			Name:        w.file.Name,
			ContentType: w.file.ContentType,
			Size:        w.file.Size,
			ModTime:     w.file.ModTime,
			Details:     w.details,
		}
	}
	if w.result != nil {
		r := *w.result
		v.Result = &r
	}
	return v
}

func (w *Widget) selectLocked(ctx context.Context, f *media.File) error {
	if w.closed {
		discard(f)
		return ErrClosed
	}
	w.touch()

	if err := media.Validate(w.kind, f); err != nil {
		var verr *media.ValidationError
		if errors.As(err, &verr) {
			w.observer.Rejected(w.kind, verr.Reason)
		}
		logger.Warn("Rejected %s as %s: %v", f.Name, w.kind, err)
		w.notices.Error(err.Error())
		discard(f)
		return err
	}

	w.removeLocked(ctx)

	if _, err := w.slot.Set(ctx, f); err != nil {
		logger.Error("Failed to create preview for %s: %v", f.Name, err)
		w.notices.Error("Preview unavailable. Please try again.")
		discard(f)
		return fmt.Errorf("failed to create preview: %w", err)
	}

	w.file = f
	if w.kind == media.KindImage {
		w.details = readDetails(f)
	}
	logger.Info("Selected %s %s (%s)", w.kind, f.Name, humanize.Bytes(uint64(f.Size)))
	return nil
}

// removeLocked retires the selected file. The generation bump drops any
// result still in flight for it.
func (w *Widget) removeLocked(ctx context.Context) {
	if err := w.slot.Release(ctx); err != nil {
		logger.Warn("Failed to release preview: %v", err)
	}
	if w.file != nil {
		discard(w.file)
	}
	w.file = nil
	w.details = nil
	w.result = nil
	w.generation++
}

func (w *Widget) setDrag(active bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.touch()
	w.dragActive = active
	return nil
}

func (w *Widget) touch() {
	w.lastActive = w.now()
}

func newResult(resp *classifier.Response, err error) *Result {
	if err != nil {
		text := "Error: " + classifier.Describe(err)
		return &Result{Text: text, Verdict: verdict.Classify(text), Err: err}
	}

	text := classifier.FormatResult(resp)
	return &Result{Text: text, Verdict: verdict.Classify(text), Authoritative: true}
}

func outcomeOf(err error) string {
	var (
		statusErr  *classifier.StatusError
		serviceErr *classifier.ServiceError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case classifier.IsNetworkError(err):
		return OutcomeNetwork
	case errors.As(err, &statusErr):
		return OutcomeStatus
	case errors.As(err, &serviceErr):
		return OutcomeService
	default:
		return OutcomeFailed
	}
}

func readDetails(f *media.File) *exif.Details {
	rc, err := f.Open()
	if err != nil {
		return nil
	}
	defer rc.Close()

	d, err := exif.Extract(rc)
	if err != nil {
		logger.Debug("No EXIF details for %s: %v", f.Name, err)
		return nil
	}
	if d.Empty() {
		return nil
	}
	return d
}

func discard(f *media.File) {
	if err := f.Discard(); err != nil {
		logger.Warn("Failed to discard %s: %v", f.Name, err)
	}
}

type observedStore struct {
	preview.Store
	obs Observer
}

func (s observedStore) Create(ctx context.Context, f *media.File) (preview.Handle, error) {
	h, err := s.Store.Create(ctx, f)
	if err == nil {
		s.obs.PreviewCreated()
	}
	return h, err
}

// Release reports the handle as gone even when the backend fails, since the
// slot has already dropped it.
func (s observedStore) Release(ctx context.Context, h preview.Handle) error {
	err := s.Store.Release(ctx, h)
	if err != nil {
		logger.Warn("Preview backend failed to release %s: %v", h.ID, err)
	}
	s.obs.PreviewReleased()
	return err
}
