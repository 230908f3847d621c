package dataio

import (
	"fmt"

	"go.uber.org/multierr"
)

// Code classifies an Error or Warning.
type Code int32

const (
	CodeUnknown            Code = -1000
	CodeUnregisteredType   Code = -1001
	CodeMissingAttribute   Code = -1002
	CodeReadFailed         Code = -1003
	CodeWriteFailed        Code = -1004
	CodeShapeMismatch      Code = -1005
	CodeCreateFailed       Code = -1006
	CodeUnsupportedVersion Code = -1007
	CodeUnresolvedLink     Code = -1008
	CodeCancelled          Code = -1009
)

// Error is one failure attached to the path of the object it concerns.
type Error struct {
	Code    Code
	Message string
	Path    string

	cause error
}

func (e Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Path, e.Message)
}

// Unwrap returns the error recorded by AddError, if any.
func (e Error) Unwrap() error { return e.cause }

// Warning is a recoverable problem; the affected object was skipped or
// degraded.
type Warning struct {
	Code    Code
	Message string
	Path    string
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("[%d] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%d] %s: %s", w.Code, w.Path, w.Message)
}

// Result carries a value together with every error and warning collected
// while producing it.
type Result[T any] struct {
	Value    T
	Errors   []Error
	Warnings []Warning
}

// Void is a Result without a value.
type Void = Result[struct{}]

// Ok returns a valid Result holding v.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail returns a Result with a single error.
func Fail[T any](code Code, path string, err error) Result[T] {
	var r Result[T]
	r.AddError(code, path, err)
	return r
}

// Valid reports whether no errors were recorded.
func (r *Result[T]) Valid() bool { return len(r.Errors) == 0 }

// AddError records err against path.
func (r *Result[T]) AddError(code Code, path string, err error) {
	r.Errors = append(r.Errors, Error{Code: code, Message: err.Error(), Path: path, cause: err})
}

// AddErrorf records a formatted error against path.
func (r *Result[T]) AddErrorf(code Code, path, format string, args ...any) {
	r.Errors = append(r.Errors, Error{Code: code, Message: fmt.Sprintf(format, args...), Path: path})
}

// AddWarningf records a formatted warning against path.
func (r *Result[T]) AddWarningf(code Code, path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: fmt.Sprintf(format, args...), Path: path})
}

// Err combines every recorded error, or returns nil.
func (r *Result[T]) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

// Merge appends the errors and warnings of src to dst, keeping dst's value.
func Merge[T, U any](dst *Result[T], src Result[U]) {
	dst.Errors = append(dst.Errors, src.Errors...)
	dst.Warnings = append(dst.Warnings, src.Warnings...)
}

// Convert returns a Result holding v with the diagnostics of src.
func Convert[T, U any](src Result[U], v T) Result[T] {
	return Result[T]{Value: v, Errors: src.Errors, Warnings: src.Warnings}
}
