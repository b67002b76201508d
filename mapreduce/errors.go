package mapreduce

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")

	ErrInvalidUTF8 = errors.New("invalid utf-8")
	ErrOverflow    = errors.New("integer overflow")
)

type ConfigurationError struct {
	Field string
	Value int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s must be positive, got %d", ErrConfiguration, e.Field, e.Value)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ChunkProcessingError reports a map task that failed on one chunk.
type ChunkProcessingError struct {
	ChunkID int
	Start   int
	End     int
	Err     error
}

func (e *ChunkProcessingError) Error() string {
	return fmt.Sprintf("map chunk %d [%d:%d]: %s", e.ChunkID, e.Start, e.End, e.Err)
}

func (e *ChunkProcessingError) Unwrap() error {
	return e.Err
}

// ReductionError reports a reduce task that failed on one word.
type ReductionError struct {
	Word string
	Err  error
}

func (e *ReductionError) Error() string {
	return fmt.Sprintf("reduce word %q: %s", e.Word, e.Err)
}

func (e *ReductionError) Unwrap() error {
	return e.Err
}

// PhaseTimeoutError is returned when a phase does not join before
// Config.PhaseTimeout. It unwraps to context.DeadlineExceeded.
type PhaseTimeoutError struct {
	Phase       string
	Outstanding int
}

func (e *PhaseTimeoutError) Error() string {
	return fmt.Sprintf("%s phase: %d task(s) outstanding: %s", e.Phase, e.Outstanding, context.DeadlineExceeded)
}

func (e *PhaseTimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
