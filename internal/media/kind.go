package media

import (
	"fmt"
	"strings"
)

// Kind is one of the supported upload categories.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// MaxFileSize is the largest accepted upload (100MB).
const MaxFileSize int64 = 100 * 1024 * 1024

var allowedTypes = map[Kind][]string{
	KindImage: {"image/jpeg", "image/jpg", "image/png", "image/gif", "image/bmp", "image/webp"},
	KindVideo: {"video/mp4", "video/avi", "video/mov", "video/mkv", "video/webm", "video/x-flv"},
	KindAudio: {"audio/wav", "audio/mp3", "audio/flac", "audio/ogg", "audio/aac", "audio/x-m4a"},
}

var allowedExtensions = map[Kind][]string{
	KindImage: {"jpg", "jpeg", "png", "gif", "bmp", "webp"},
	KindVideo: {"mp4", "avi", "mov", "mkv", "webm", "flv"},
	KindAudio: {"wav", "mp3", "flac", "ogg", "aac", "m4a"},
}

// Kinds returns the supported kinds in display order.
func Kinds() []Kind {
	return []Kind{KindImage, KindVideo, KindAudio}
}

// ParseKind converts a request value into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := allowedTypes[k]; !ok {
		return "", fmt.Errorf("unsupported media kind %q (use image, video or audio)", s)
	}
	return k, nil
}

// Accept returns the file picker filter for the kind.
func (k Kind) Accept() string {
	return string(k) + "/*"
}

// Title returns the capitalised kind name.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// AllowedTypes returns the MIME allow-list for the kind.
func (k Kind) AllowedTypes() []string {
	return append([]string(nil), allowedTypes[k]...)
}

// AllowedExtensions returns the fallback extension allow-list for the kind.
func (k Kind) AllowedExtensions() []string {
	return append([]string(nil), allowedExtensions[k]...)
}
