package widget

import (
	"time"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/exif"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/notify"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/preview"
)

// View is a point-in-time copy of the widget state
type View struct {
	Kind       media.Kind
	File       *FileView
	Preview    preview.Handle
	DragActive bool
	Loading    bool
	Result     *Result
	Prompt     string
	Notices    []notify.Notice
}

// FileView describes the selected file
type FileView struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	Details     *exif.Details
}

// SizeMB returns the size in megabytes
func (f *FileView) SizeMB() float64 {
	return float64(f.Size) / 1024 / 1024
}

// HasFile reports whether a file is selected
func (v View) HasFile() bool {
	return v.File != nil
}

// CanSubmit reports whether the submit control is enabled
func (v View) CanSubmit() bool {
	return v.File != nil && !v.Loading
}
