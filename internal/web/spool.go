package web

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
)

const spoolPattern = "upload-*"

// Spool stores uploaded parts on disk until the widget retires them
type Spool struct {
	dir string
}

// NewSpool creates the spool directory if needed
func NewSpool(dir string) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory %s: %w", dir, err)
	}
	return &Spool{dir: dir}, nil
}

// Save copies r into a spool file. At most media.MaxFileSize+1 bytes are
// kept, so an oversize upload reports a size above the limit and is
// rejected by validation without reading the rest of the body.
func (s *Spool) Save(name, contentType string, modTime time.Time, r io.Reader) (*media.File, error) {
	f, err := os.CreateTemp(s.dir, spoolPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	path := f.Name()

	written, err := io.Copy(f, io.LimitReader(r, media.MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to spool %s: %w", name, err)
	}

	logger.Debug("Spooled %s to %s (%d bytes)", name, path, written)
	return media.NewFile(baseName(name), contentType, written, modTime, spoolSource(path)), nil
}

// Cleanup removes spool files older than maxAge
func (s *Spool) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), strings.TrimSuffix(spoolPattern, "*")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.dir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

type spoolSource string

func (p spoolSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

func (p spoolSource) Discard() error {
	err := os.Remove(string(p))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// baseName strips any client supplied directory from a file name
func baseName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return "upload"
	}
	return name
}
