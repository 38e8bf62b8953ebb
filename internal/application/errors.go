package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrRootUnavailable = errors.New("root page unavailable")
	ErrNoSnapshot      = errors.New("no snapshot")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigError is a fatal startup problem: bad patterns, flags or missing settings
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FetchError is a remote call that failed terminally after retries
type FetchError struct {
	ID       string
	Op       string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Op, e.ID, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a snapshot or statistics read/write failure
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
