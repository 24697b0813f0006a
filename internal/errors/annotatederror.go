// Package errors provides annotated errors that carry structured logging
// attributes and the source location of the wrap site. It re-exports the
// standard library helpers so call sites only need one import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps the given errors into a single error.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// sentinelError is a comparable error without annotations, suitable for
// errors.Is checks across package boundaries.
type sentinelError struct {
	msg string
}

func (e *sentinelError) Error() string {
	return e.msg
}

// NewSentinel creates an error meant to be compared with [Is].
func NewSentinel(msg string) error {
	return &sentinelError{msg: msg}
}

// annotatedError decorates an error with a message, slog attributes, and the
// program counter of the wrap site.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

// Wrap annotates err with a message and optional slog attributes. The
// attributes surface in log output through [SlogError].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	var pcs [1]uintptr
	// Skip runtime.Callers and Wrap itself so the recorded frame is the call site.
	runtime.Callers(2, pcs[:]) //nolint:mnd // see comment above.
	return &annotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		pc:    pcs[0],
	}
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// DecoratePanic converts a recovered panic value into an error.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return fmt.Errorf("panic: %v", recovered)
}

// SlogError renders err as a slog group attribute containing the error
// message, the annotations collected from the error tree, and the source
// location of the outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	collectAnnotations(err, &annotations, &source)

	args := []any{slog.String("message", err.Error())}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", args...)
}

// collectAnnotations walks the error tree depth-first gathering attributes
// from annotated errors. The source of the first annotated error wins since
// it is closest to the call site that observed the failure.
func collectAnnotations(err error, annotations *[]any, source *string) {
	if err == nil {
		return
	}

	var annotated *annotatedError
	if errors.As(err, &annotated) {
		for _, attr := range annotated.attrs {
			*annotations = append(*annotations, attr)
		}
		if *source == "" && annotated.pc != 0 {
			frames := runtime.CallersFrames([]uintptr{annotated.pc})
			frame, _ := frames.Next()
			if frame.File != "" {
				*source = fmt.Sprintf("%s:%d", frame.File, frame.Line)
			}
		}
		collectAnnotations(annotated.err, annotations, source)
		return
	}

	switch unwrapped := err.(type) { //nolint:errorlint // walking the tree, not matching.
	case interface{ Unwrap() error }:
		collectAnnotations(unwrapped.Unwrap(), annotations, source)
	case interface{ Unwrap() []error }:
		for _, joined := range unwrapped.Unwrap() {
			collectAnnotations(joined, annotations, source)
		}
	}
}
