// Package jpeg decodes baseline sequential JPEG (ITU-T T.81 / JFIF) images
// into 8-bit grayscale or interleaved RGB rasters.
package jpeg

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a decode failure. The taxonomy is fixed; callers are
// expected to switch on Kind rather than match error strings.
type ErrorKind int

const (
	IoError ErrorKind = iota
	MalformedStream
	UnsupportedFeature
	InvalidTableId
	InvalidHuffmanCode
	EntropyOverflow
	RestartMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case MalformedStream:
		return "MalformedStream"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InvalidTableId:
		return "InvalidTableId"
	case InvalidHuffmanCode:
		return "InvalidHuffmanCode"
	case EntropyOverflow:
		return "EntropyOverflow"
	case RestartMismatch:
		return "RestartMismatch"
	}
	return "UnknownError"
}

// DecodeError is the error returned by every fallible operation in the
// decode pipeline: a Kind classifying the failure, the failing operation,
// the byte offset when known, and the wrapped cause.
type DecodeError struct {
	Kind    ErrorKind
	Op      string // the operation that failed, e.g. "parseSOF0", "decodeBlock"
	Offset  uint   // byte offset in the source buffer, when known
	cause   error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (at offset 0x%x): %v", e.Op, e.Kind, e.Offset, e.cause)
	}
	return fmt.Sprintf("%s: %s (at offset 0x%x)", e.Op, e.Kind, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// newErr builds a DecodeError with no wrapped cause.
func newErr(kind ErrorKind, op string, offset uint, format string, a ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Op: op, Offset: offset, cause: errors.Errorf(format, a...)}
}

// forwardErr wraps an existing error (possibly already a *DecodeError),
// preserving its kind when present, attributing the failure to op. Grounded
// on the teacher's jpgForwardError helper in jpeg.go, rebuilt on
// github.com/pkg/errors so the wrapped cause retains a stack trace.
func forwardErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{Kind: de.Kind, Op: op, Offset: de.Offset, cause: errors.Wrap(err, op)}
	}
	return &DecodeError{Kind: IoError, Op: op, cause: errors.Wrap(err, op)}
}
