package wmi

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestJournalWritesOneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	j, err := NewJournal(&buf)
	require.NoError(t, err)

	out, err := j.Evaluate(SetGamingStaticLED, []byte{0x01, 0x0a, 0x14, 0x1e})
	require.NoError(t, err)
	require.Len(t, out, outputBufferLength)

	_, err = j.Evaluate(SetGamingKBBL, []byte{0x00, 0x02})
	require.NoError(t, err)

	require.Equal(t, "6 SetGamingStaticLED 010a141e\n20 SetGamingKBBL 0002\n", buf.String())
	require.NoError(t, j.Close())
}

func TestJournalNilWriter(t *testing.T) {
	_, err := NewJournal(nil)
	require.Error(t, err)
}

func TestRecorderReject(t *testing.T) {
	r := NewRecorder()

	args := []byte{1, 2, 3}
	_, err := r.Evaluate(SetGamingKBBL, args)
	require.NoError(t, err)
	args[0] = 9

	calls := r.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, []byte{1, 2, 3}, calls[0].Args)

	r.Reject(SetGamingStaticLED, -17)
	_, err = r.Evaluate(SetGamingStaticLED, []byte{1})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, -17, statusErr.Status)
	require.Equal(t, SetGamingStaticLED, statusErr.Method)
	require.Len(t, r.Calls(), 1)

	r.Reset()
	require.Empty(t, r.Calls())

	require.NoError(t, r.Close())
	require.True(t, r.Closed())
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "SetGamingKBBL", SetGamingKBBL.String())
	require.Equal(t, "SetGamingStaticLED", SetGamingStaticLED.String())
	require.Equal(t, "Method(99)", Method(99).String())
	// ids without a record encoder here print numerically
	require.Equal(t, "Method(21)", Method(21).String())
}
