package engine

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion marks an LLM response with no usable text.
// Callers treat it like any other generation failure.
var ErrEmptyCompletion = errors.New("empty completion")

// SourceError means one job board failed for this run. The pipeline skips
// the board and continues with the others.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.Source, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// GenerationError means one LLM field failed. The tailoring engine substitutes
// the original field and continues; the error is recorded, never escalated.
type GenerationError struct {
	Field string // "summary", "skills", "experience[2]"
	Err   error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generate %s: %v", e.Field, e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// AssemblyError means document construction failed entirely. The pipeline
// aborts this job and moves to the next posting.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string { return fmt.Sprintf("assemble document: %v", e.Err) }
func (e *AssemblyError) Unwrap() error { return e.Err }

// PublishError means an upload or tracking write failed. Non-fatal: the local
// artifact is kept and the run continues.
type PublishError struct {
	Op  string // "drive", "sheets", "tracker"
	Err error
}

func (e *PublishError) Error() string { return fmt.Sprintf("publish %s: %v", e.Op, e.Err) }
func (e *PublishError) Unwrap() error { return e.Err }
