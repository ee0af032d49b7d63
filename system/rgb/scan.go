package rgb

import (
	"github.com/pkg/errors"
)

// cursor walks a ByteSource left to right with one byte of lookahead. Bytes
// are folded to lower case when fetched.
type cursor struct {
	src    ByteSource
	length int
	pos    int

	lookahead    byte
	hasLookahead bool
}

func newCursor(src ByteSource, length int) *cursor {
	return &cursor{
		src:    src,
		length: length,
	}
}

func (c *cursor) done() bool {
	return c.pos >= c.length
}

// peek returns the byte at the read position without consuming it
func (c *cursor) peek() (byte, error) {
	if c.hasLookahead {
		return c.lookahead, nil
	}
	b, err := c.src.ByteAt(c.pos)
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			err = errors.WithMessage(ErrTransport, err.Error())
		}
		return 0, c.fail(err)
	}
	c.lookahead = toLower(b)
	c.hasLookahead = true
	return c.lookahead, nil
}

// advance consumes the byte returned by the last peek
func (c *cursor) advance() {
	c.pos++
	c.hasLookahead = false
}

func (c *cursor) next() (byte, error) {
	b, err := c.peek()
	if err != nil {
		return 0, err
	}
	c.advance()
	return b, nil
}

func (c *cursor) fail(err error) error {
	return &ParseError{
		Offset: c.pos,
		Err:    err,
	}
}

// readNum scans one number in [0, 255]. The byte ending the number is left
// unread so the caller can take it as the next command.
func (c *cursor) readNum() (uint8, error) {
	n := 0
	radix := 10
	digits := 0
	marked := false

scan:
	for !c.done() {
		b, err := c.peek()
		if err != nil {
			return 0, err
		}
		switch {
		case b == ' ' && digits == 0:
			// Just ignore spaces at init
			c.advance()
		case b == 'x' && n == 0:
			if marked || digits > 1 {
				return 0, c.fail(ErrNumberFormat)
			}
			if digits == 0 {
				radix = 8
			} else {
				radix = 16
			}
			marked = true
			c.advance()
		default:
			v := digitValue(b, radix)
			if v < 0 {
				// Finished reading byte representation. Could be a space or the next command
				break scan
			}
			n = n*radix + v
			if n > 255 {
				return 0, c.fail(errors.WithMessagef(ErrValueRange, "(%d)", n))
			}
			digits++
			c.advance()
		}
	}

	if digits == 0 {
		return 0, c.fail(ErrNoDigits)
	}
	return uint8(n), nil
}

// readColor scans three numbers as R, G and B
func (c *cursor) readColor() (Color, error) {
	var rgb [3]uint8
	for i := range rgb {
		v, err := c.readNum()
		if err != nil {
			return Color{}, err
		}
		rgb[i] = v
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func digitValue(b byte, radix int) int {
	var v int
	switch {
	case b >= '0' && b <= '9':
		v = int(b - '0')
	case b >= 'a' && b <= 'f':
		v = int(b-'a') + 10
	default:
		return -1
	}
	if v >= radix {
		return -1
	}
	return v
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
