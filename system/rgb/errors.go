package rgb

import (
	"fmt"

	"github.com/starvoid/AcerRGB/system/wmi"

	"github.com/pkg/errors"
)

// Errors reported while decoding. They are wrapped in a *ParseError carrying
// the position in the input.
var (
	ErrTransport           = errors.New("copying data from caller failed")
	ErrNumberFormat        = errors.New("no acceptable number format")
	ErrValueRange          = errors.New("no acceptable amount for a byte")
	ErrNoDigits            = errors.New("no number found")
	ErrUnrecognizedCommand = errors.New("not acceptable message")
	ErrZoneRange           = errors.New("zone index out of range")
)

// Status codes returned by Code. A firmware rejection is forwarded with the
// status it came with.
const (
	CodeNumberFormat        = -1
	CodeValueRange          = -2
	CodeNoDigits            = -3
	CodeUnrecognizedCommand = -4
	CodeIO                  = -5
	CodeTransport           = -14
	CodeZoneRange           = -22
)

// ParseError reports the first malformed token of a write
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rgb: %s at pos %d", e.Err, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DispatchError reports that a finished record could not be applied
type DispatchError struct {
	Method wmi.Method
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("rgb: writing to %s failed: %s", e.Method, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Code maps an error returned by Writer to a negative status, 0 for nil
func Code(err error) int {
	if err == nil {
		return 0
	}

	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		var statusErr *wmi.StatusError
		if errors.As(dispatchErr.Err, &statusErr) && statusErr.Status < 0 {
			return statusErr.Status
		}
		return CodeIO
	}

	switch {
	case errors.Is(err, ErrTransport):
		return CodeTransport
	case errors.Is(err, ErrNumberFormat):
		return CodeNumberFormat
	case errors.Is(err, ErrValueRange):
		return CodeValueRange
	case errors.Is(err, ErrNoDigits):
		return CodeNoDigits
	case errors.Is(err, ErrUnrecognizedCommand):
		return CodeUnrecognizedCommand
	case errors.Is(err, ErrZoneRange):
		return CodeZoneRange
	}
	return CodeIO
}
