package rgb

import (
	"io"

	"github.com/pkg/errors"
)

// ByteSource hands out the input one byte at a time. ByteAt must be deterministic
// for a given index during one write, and must fail with an error wrapping
// ErrTransport when the byte cannot be fetched.
type ByteSource interface {
	ByteAt(i int) (byte, error)
}

// Bytes is a trusted in-process buffer
type Bytes []byte

var _ ByteSource = Bytes(nil)

// ByteAt satisfies ByteSource
func (b Bytes) ByteAt(i int) (byte, error) {
	if i < 0 || i >= len(b) {
		return 0, errors.WithMessagef(ErrTransport, "index %d outside buffer of %d bytes", i, len(b))
	}
	return b[i], nil
}

// Validated reads from caller controlled memory. Every byte is copied through a
// one byte buffer and the copy has to report exactly one byte before it is used.
type Validated struct {
	r io.ReaderAt
}

var _ ByteSource = &Validated{}

// NewValidated returns a ByteSource copying from r
func NewValidated(r io.ReaderAt) *Validated {
	return &Validated{
		r: r,
	}
}

// ByteAt satisfies ByteSource
func (v *Validated) ByteAt(i int) (byte, error) {
	var buf [1]byte
	n, err := v.r.ReadAt(buf[:], int64(i))
	if n != 1 {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return 0, errors.WithMessagef(ErrTransport, "copying byte %d from caller failed: %v", i, err)
	}
	return buf[0], nil
}
