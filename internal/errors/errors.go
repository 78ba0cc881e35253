// Package errors defines the typed failures returned by the transit analysis stages.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies why a stage failed.
type ErrorCode string

const (
	ErrEmptyInput           ErrorCode = "EMPTY_INPUT"
	ErrInsufficientData     ErrorCode = "INSUFFICIENT_DATA"
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	ErrUndefinedMath        ErrorCode = "UNDEFINED_MATH"
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageConfig    Stage = "config"
	StageQuality   Stage = "quality"
	StageNormalize Stage = "normalize"
	StageMerge     Stage = "merge"
	StageSearch    Stage = "search"
	StageFold      Stage = "fold"
	StageDepth     Stage = "depth"
	StagePhysics   Stage = "physics"
)

// AnalysisError is a failure that identifies the stage and the reason.
type AnalysisError struct {
	Code    ErrorCode
	Stage   Stage
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Code, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewEmptyInput reports a curve or segment with no usable samples.
func NewEmptyInput(stage Stage, msg string) *AnalysisError {
	return &AnalysisError{
		Code:    ErrEmptyInput,
		Stage:   stage,
		Message: msg,
	}
}

// NewInsufficientData reports a bin, window or box without enough samples
// to produce a required value.
func NewInsufficientData(stage Stage, msg string, details map[string]any) *AnalysisError {
	return &AnalysisError{
		Code:    ErrInsufficientData,
		Stage:   stage,
		Message: msg,
		Details: details,
	}
}

// NewInvalidConfiguration reports a parameter outside its allowed range.
func NewInvalidConfiguration(stage Stage, field string, format string, args ...any) *AnalysisError {
	return &AnalysisError{
		Code:    ErrInvalidConfiguration,
		Stage:   stage,
		Message: fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...)),
		Details: map[string]any{"field": field},
	}
}

// NewUndefinedMath reports an operation with no real-valued result.
func NewUndefinedMath(stage Stage, msg string, details map[string]any) *AnalysisError {
	return &AnalysisError{
		Code:    ErrUndefinedMath,
		Stage:   stage,
		Message: msg,
		Details: details,
	}
}

// Wrap attaches a stage and code to an underlying error.
func Wrap(err error, code ErrorCode, stage Stage, msg string) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Stage:   stage,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err, or any error it wraps, is an AnalysisError with the given code.
func Is(err error, code ErrorCode) bool {
	var aErr *AnalysisError
	if stderrors.As(err, &aErr) {
		return aErr.Code == code
	}
	return false
}

// StageOf returns the stage recorded on err, or "" when err is not an AnalysisError.
func StageOf(err error) Stage {
	var aErr *AnalysisError
	if stderrors.As(err, &aErr) {
		return aErr.Stage
	}
	return ""
}
