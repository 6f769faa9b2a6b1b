package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheReadOnly is returned by history stores opened without update permission.
	ErrCacheReadOnly = errors.New("history cache is read-only")
	// ErrCursorStalled is returned when a full page does not move the block cursor forward.
	ErrCursorStalled = errors.New("explorer page cursor stalled")
)

// MalformedRecordError reports an upstream payload that failed strict parsing.
type MalformedRecordError struct {
	Hash  string
	Field string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Hash == "" {
		return fmt.Sprintf("malformed record: field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed record %s: field %s: %v", e.Hash, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// RemoteUnavailableError reports a remote call that kept failing after bounded retries,
// or was rejected for a reason other than quota.
type RemoteUnavailableError struct {
	Operation string
	Attempts  int
	Err       error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("remote %s unavailable after %d attempt(s): %v", e.Operation, e.Attempts, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// RateLimitExceededError reports an explicit quota rejection from the remote.
// RetryAfter is zero and Remaining is negative when the remote did not say.
type RateLimitExceededError struct {
	Message    string
	RetryAfter time.Duration
	Remaining  int
}

func (e *RateLimitExceededError) Error() string {
	msg := "rate limit exceeded"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Remaining >= 0 {
		msg += fmt.Sprintf(" (remaining %d)", e.Remaining)
	}
	return msg
}

// CacheCorruptionError reports a persisted cache that could not be read back.
// It is never treated as an empty history.
type CacheCorruptionError struct {
	Path string
	Err  error
}

func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("history cache %s is corrupt: %v", e.Path, e.Err)
}

func (e *CacheCorruptionError) Unwrap() error {
	return e.Err
}
