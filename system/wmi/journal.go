package wmi

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Journal is a WMI that appends every evaluated call to w, one line per call,
// as "<method id> <method name> <hex args>". It never rejects a buffer.
type Journal struct {
	mu sync.Mutex
	w  io.Writer
}

var _ WMI = &Journal{}

// NewJournal returns a Journal writing to w. If w is also an io.Closer it is
// closed by Close.
func NewJournal(w io.Writer) (*Journal, error) {
	if w == nil {
		return nil, errors.New("wmi: nil journal writer is invalid")
	}
	return &Journal{
		w: w,
	}, nil
}

func (j *Journal) Evaluate(id Method, args []byte) ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := fmt.Fprintf(j.w, "%d %s %s\n", uint32(id), id, hex.EncodeToString(args)); err != nil {
		return nil, errors.Wrap(err, "wmi: cannot write journal entry")
	}
	return make([]byte, outputBufferLength), nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if c, ok := j.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
