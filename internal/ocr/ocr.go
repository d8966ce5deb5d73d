// Package ocr wraps the external text-recognition collaborator. The core
// only ever consumes its text output; recognition failures are retryable and
// never block the manual text-entry path.
package ocr

import (
	"context"
	"fmt"
)

// Recognizer defines the contract for receipt text recognition.
type Recognizer interface {
	// Recognize extracts the raw text from a receipt image or PDF. The
	// progress callback, when non-nil, is invoked zero or more times with a
	// monotone completion fraction in [0,1] before the call returns.
	// Cancellation is cooperative via ctx, checked between progress updates.
	Recognize(ctx context.Context, data []byte, contentType string, progress func(float64)) (string, error)

	// Close releases any resources held by the recognizer.
	Close() error
}

// Error wraps a recognition failure. It is distinct from parser errors:
// callers should offer a retry with a clearer image or fall back to manual
// text entry, and nothing else in the system is affected.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ocr %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
