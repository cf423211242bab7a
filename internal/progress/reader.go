// internal/progress/reader.go
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
)

// Reader tracks and reports how much of an upload body has been read
type Reader struct {
	r     io.Reader
	name  string
	total int64

	mu             sync.Mutex
	read           int64
	startTime      time.Time
	lastUpdateTime time.Time
	updateInterval time.Duration
}

// NewReader wraps r, reporting progress for a body of total bytes at most once per interval
func NewReader(r io.Reader, name string, total int64, interval time.Duration) *Reader {
	now := time.Now()
	return &Reader{
		r:              r,
		name:           name,
		total:          total,
		startTime:      now,
		lastUpdateTime: now,
		updateInterval: interval,
	}
}

// Read implements io.Reader
func (p *Reader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)

	p.mu.Lock()
	p.read += int64(n)
	if err == io.EOF {
		p.finish()
	} else {
		p.updateProgress()
	}
	p.mu.Unlock()

	return n, err
}

// BytesRead returns the number of bytes read so far
func (p *Reader) BytesRead() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.read
}

func (p *Reader) finish() {
	logger.Debug("Sent %s (%s) in %s", p.name, humanize.Bytes(uint64(p.read)),
		time.Since(p.startTime).Round(time.Millisecond))
}

// updateProgress logs the percentage sent when the interval has elapsed
func (p *Reader) updateProgress() {
	if p.updateInterval <= 0 || p.total <= 0 {
		return
	}

	now := time.Now()
	if now.Sub(p.lastUpdateTime) < p.updateInterval {
		return
	}
	p.lastUpdateTime = now

	percentage := float64(p.read) / float64(p.total) * 100
	logger.Info("Uploading %s: %.1f%% (%s of %s)", p.name, percentage,
		humanize.Bytes(uint64(p.read)), humanize.Bytes(uint64(p.total)))
}
