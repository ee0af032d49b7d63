package keyboard

import (
	"context"
	"testing"
	"time"

	"github.com/starvoid/AcerRGB/system/plugin"
	"github.com/starvoid/AcerRGB/system/rgb"
	"github.com/starvoid/AcerRGB/system/wmi"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewControlNilWMI(t *testing.T) {
	_, err := NewControl(Config{})
	require.Error(t, err)
}

func TestInitializeRejectsMalformedInitConf(t *testing.T) {
	rec := wmi.NewRecorder()
	ctrl, err := NewControl(Config{WMI: rec, InitConf: "m1 q"})
	require.NoError(t, err)

	err = ctrl.Initialize()
	require.True(t, errors.Is(err, rgb.ErrUnrecognizedCommand))
	require.Empty(t, rec.Calls())
}

func TestApplyReplaysInitConf(t *testing.T) {
	rec := wmi.NewRecorder()
	ctrl, err := NewControl(Config{WMI: rec, InitConf: "z1 255 0 0 m3"})
	require.NoError(t, err)
	require.NoError(t, ctrl.Initialize())
	require.Empty(t, rec.Calls())

	require.NotEmpty(t, ctrl.Name())
	require.NoError(t, ctrl.Apply())
	first := rec.Calls()
	require.Len(t, first, 2)

	rec.Reset()
	require.NoError(t, ctrl.Apply())
	require.Equal(t, first, rec.Calls())
}

func TestReplayWithoutInitConf(t *testing.T) {
	rec := wmi.NewRecorder()
	ctrl, err := NewControl(Config{WMI: rec})
	require.NoError(t, err)

	require.NoError(t, ctrl.Replay())
	require.Empty(t, rec.Calls())
}

func TestRunReplayFailureNotifies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := wmi.NewRecorder()
	rec.Reject(wmi.SetGamingKBBL, -7)
	ctrl, err := NewControl(Config{WMI: rec, InitConf: "m1"})
	require.NoError(t, err)

	cb := make(chan plugin.Callback, 4)
	ctrl.Run(ctx, cb)
	ctrl.Notify(plugin.Task{Event: plugin.EvtKbReplay})

	select {
	case c := <-cb:
		require.Equal(t, plugin.CbNotify, c.Event)
		require.Contains(t, c.Value.(string), "(-7)")
	case <-time.After(time.Second):
		t.Fatal("no callback")
	}
}

func TestNotifyWithoutQueueLoop(t *testing.T) {
	rec := wmi.NewRecorder()
	ctrl, err := NewControl(Config{WMI: rec, InitConf: "m1"})
	require.NoError(t, err)
	ctrl.notifyTimeout = time.Millisecond * 20

	done := make(chan struct{})
	go func() {
		ctrl.Notify(plugin.Task{Event: plugin.EvtKbReplay})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a queue loop")
	}
	require.Empty(t, rec.Calls())

	// direct writes do not depend on the queue loop
	n, err := ctrl.WriteFrom(rgb.Bytes("b10"), 3)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, rec.Calls(), 1)
}

func TestRunReplayTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := wmi.NewRecorder()
	ctrl, err := NewControl(Config{WMI: rec, InitConf: "c1 2 3"})
	require.NoError(t, err)

	ctrl.Run(ctx, make(chan plugin.Callback, 1))
	ctrl.Notify(plugin.Task{Event: plugin.EvtACPIPostHibernation})

	require.Eventually(t, func() bool {
		return len(rec.Calls()) == 1
	}, time.Second, time.Millisecond*10)
}

type closedWMI struct{}

func (closedWMI) Evaluate(wmi.Method, []byte) ([]byte, error) { return nil, errors.New("closed") }
func (closedWMI) Close() error                                 { return nil }

func TestRunReportsUnreachableWMI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl, err := NewControl(Config{WMI: closedWMI{}, InitConf: "m1"})
	require.NoError(t, err)

	errCh := ctrl.Run(ctx, make(chan plugin.Callback, 1))
	ctrl.Notify(plugin.Task{Event: plugin.EvtKbReplay})

	select {
	case err := <-errCh:
		require.Equal(t, rgb.CodeIO, rgb.Code(err))
	case <-time.After(time.Second):
		t.Fatal("no error reported")
	}
}

func TestClose(t *testing.T) {
	rec := wmi.NewRecorder()
	ctrl, err := NewControl(Config{WMI: rec})
	require.NoError(t, err)

	require.NoError(t, ctrl.Close())
	require.True(t, rec.Closed())
}
