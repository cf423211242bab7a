package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Source gives access to the bytes of a selected file.
type Source interface {
	Open() (io.ReadCloser, error)
}

// Discarder is implemented by sources that hold temporary bytes
// which must be removed once the file is retired.
type Discarder interface {
	Discard() error
}

// File is a user-provided file together with its declared metadata.
type File struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time

	src     Source
	discard sync.Once
}

// NewFile creates a File over src.
func NewFile(name, contentType string, size int64, modTime time.Time, src Source) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		ModTime:     modTime,
		src:         src,
	}
}

// Open opens the file contents for reading.
func (f *File) Open() (io.ReadCloser, error) {
	if f.src == nil {
		return nil, fmt.Errorf("file %s has no content source", f.Name)
	}
	return f.src.Open()
}

// SizeMB returns the size in megabytes.
func (f *File) SizeMB() float64 {
	return float64(f.Size) / 1024 / 1024
}

// Discard releases temporary bytes held by the source. Safe to call more than once.
func (f *File) Discard() error {
	var err error
	f.discard.Do(func() {
		if d, ok := f.src.(Discarder); ok {
			err = d.Discard()
		}
	})
	return err
}

type pathSource string

func (p pathSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

// FromPath builds a File for a file on the local file system. Nothing
// declares a MIME type for local files, so the content is sniffed.
func FromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	contentType := DetectContentType(path)
	if mt, err := mimetype.DetectFile(path); err == nil && !mt.Is("application/octet-stream") {
		contentType = mt.String()
	}

	return NewFile(filepath.Base(path), contentType, info.Size(), info.ModTime(), pathSource(path)), nil
}
