package common

import "fmt"

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration Error: %s", e.Message)
}

// StorageError reports a failure in a preview storage backend.
type StorageError struct {
	Backend string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Storage Error (%s): %s: %v", e.Backend, e.Message, e.Err)
	}
	return fmt.Sprintf("Storage Error (%s): %s", e.Backend, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewConfigError(format string, args ...interface{}) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

func NewStorageError(backend, message string, err error) error {
	return &StorageError{Backend: backend, Message: message, Err: err}
}
