package media

import (
	"fmt"
	"slices"
)

// Reason names the rule a rejected file violated.
type Reason string

const (
	ReasonType Reason = "type"
	ReasonSize Reason = "size"
)

// ValidationError describes why a file was not accepted for a kind.
type ValidationError struct {
	Kind    Kind
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate accepts f for kind k when its declared type or its extension is
// allowed and it is no larger than MaxFileSize. The type rule is checked first.
func Validate(k Kind, f *File) error {
	if !AllowsType(k, f.ContentType) && !AllowsExtension(k, f.Name) {
		return &ValidationError{
			Kind:    k,
			Reason:  ReasonType,
			Message: fmt.Sprintf("Invalid file type for %s. Please select a valid %s file.", k, k),
		}
	}

	if f.Size > MaxFileSize {
		return &ValidationError{
			Kind:    k,
			Reason:  ReasonSize,
			Message: "File too large. Maximum size is 100MB.",
		}
	}

	return nil
}

// AllowsType reports whether the declared MIME type is on the kind's allow-list.
func AllowsType(k Kind, contentType string) bool {
	return slices.Contains(allowedTypes[k], normalizeType(contentType))
}

// AllowsExtension reports whether the file name's extension is on the kind's fallback list.
func AllowsExtension(k Kind, filename string) bool {
	ext := extension(filename)
	return ext != "" && slices.Contains(allowedExtensions[k], ext)
}
