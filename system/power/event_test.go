package power

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestJumpDetector(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := newJumpDetector(time.Second*30, base, 0)

	_, jumped := d.observe(base.Add(time.Second*5), time.Second*5)
	require.False(t, jumped)

	// slept for ten minutes between two polls
	gap, jumped := d.observe(base.Add(time.Minute*10+time.Second*10), time.Second*10)
	require.True(t, jumped)
	require.Equal(t, time.Minute*10, gap)

	_, jumped = d.observe(base.Add(time.Minute*10+time.Second*15), time.Second*15)
	require.False(t, jumped)
}

func TestSignalPostHibernation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventCh := make(chan uint32, 1)
	require.NoError(t, NewEventListener(ctx, eventCh, ListenerConfig{}))

	require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGUSR1))

	select {
	case ev := <-eventCh:
		require.Equal(t, PM_POST_HIBERNATION, ev)
	case <-time.After(time.Second * 2):
		t.Fatal("no event received")
	}
}
