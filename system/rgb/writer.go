package rgb

import (
	"github.com/starvoid/AcerRGB/system/wmi"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Writer decodes commands and evaluates the resulting records on a WMI.
// A Writer holds no state between writes.
type Writer struct {
	wmi wmi.WMI
}

// NewWriter returns a Writer dispatching to w
func NewWriter(w wmi.WMI) (*Writer, error) {
	if w == nil {
		return nil, errors.New("rgb: nil WMI is invalid")
	}
	return &Writer{
		wmi: w,
	}, nil
}

// Write decodes p as a trusted buffer. It satisfies io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.WriteFrom(Bytes(p), len(p))
}

// WriteString decodes s as a trusted buffer
func (w *Writer) WriteString(s string) (int, error) {
	return w.WriteFrom(Bytes(s), len(s))
}

// WriteFrom decodes length bytes of src. Zone commands are evaluated as soon as
// they are decoded, the mode record once the input is exhausted. On success it
// returns the number of bytes consumed. On failure the mode record is dropped
// and zone records already evaluated stay applied.
func (w *Writer) WriteFrom(src ByteSource, length int) (int, error) {
	if length < 0 {
		return 0, &ParseError{Offset: 0, Err: errors.WithMessagef(ErrTransport, "negative length %d", length)}
	}

	c := newCursor(src, length)
	record := DefaultModeRecord()

	for !c.done() {
		offset := c.pos
		b, err := c.next()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\n':
			// Blank or end line. Ignored
		case 'z':
			if err := w.writeZone(c); err != nil {
				return 0, err
			}
		case 'c':
			color, err := c.readColor()
			if err != nil {
				return 0, err
			}
			record.SetColor(color)
		default:
			index, ok := fieldByteIndex(b)
			if !ok {
				return 0, &ParseError{
					Offset: offset,
					Err:    errors.WithMessagef(ErrUnrecognizedCommand, "%q", b),
				}
			}
			v, err := c.readNum()
			if err != nil {
				return 0, err
			}
			record[index] = v
		}
	}

	record.finalize()
	if err := w.dispatch(wmi.SetGamingKBBL, record.Bytes()); err != nil {
		return 0, err
	}
	return c.pos, nil
}

func (w *Writer) writeZone(c *cursor) error {
	offset := c.pos
	index, err := c.readNum()
	if err != nil {
		return err
	}
	if index < 1 || index > MaxZones {
		return &ParseError{
			Offset: offset,
			Err:    errors.WithMessagef(ErrZoneRange, "(%d)", index),
		}
	}
	color, err := c.readColor()
	if err != nil {
		return err
	}
	zone := ZoneRecord{
		Mask:  zoneMask(index),
		Color: color,
	}
	log.Debug().Msgf("rgb: setting color in zone %d: %s", index, color)
	return w.dispatch(wmi.SetGamingStaticLED, zone.Bytes())
}

func (w *Writer) dispatch(id wmi.Method, payload []byte) error {
	log.Debug().Msgf("rgb: evaluating %s input buffer: %+v", id, payload)
	if _, err := w.wmi.Evaluate(id, payload); err != nil {
		log.Error().Err(err).Msgf("rgb: writing to %s failed", id)
		return &DispatchError{
			Method: id,
			Err:    err,
		}
	}
	return nil
}
