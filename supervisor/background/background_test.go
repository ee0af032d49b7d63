package background

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starvoid/AcerRGB/util"

	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, tag string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/starvoid/AcerRGB/releases/latest", r.URL.Path)
		fmt.Fprintf(w, `{"tag_name": %q}`, tag)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewVersionCheck(t *testing.T) {
	_, err := NewVersionCheck("not a version", "starvoid/AcerRGB", 0, nil)
	require.Error(t, err)

	_, err = NewVersionCheck("v1.0.0", "", 0, nil)
	require.Error(t, err)

	v, err := NewVersionCheck("v1.0.0", "starvoid/AcerRGB", 0, nil)
	require.NoError(t, err)
	require.Equal(t, time.Hour*6, v.interval)
}

func TestVersionCheckerNotifiesNewer(t *testing.T) {
	srv := releaseServer(t, "v1.2.0")

	notifier := make(chan util.Notification, 1)
	v, err := NewVersionCheck("v1.1.0", "starvoid/AcerRGB", time.Hour, notifier)
	require.NoError(t, err)
	v.api = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go v.Serve(ctx)

	select {
	case n := <-notifier:
		require.Contains(t, n.Message, "1.2.0")
	case <-time.After(time.Second * 2):
		t.Fatal("expected a new version notification")
	}
}

func TestVersionCheckerIgnoresOlder(t *testing.T) {
	srv := releaseServer(t, "v1.0.0")

	v, err := NewVersionCheck("v1.1.0", "starvoid/AcerRGB", time.Hour, nil)
	require.NoError(t, err)
	v.api = srv.URL

	latest, err := v.getLatest(context.Background())
	require.NoError(t, err)
	require.False(t, latest.GreaterThan(v.current))
}

func TestVersionCheckerBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	v, err := NewVersionCheck("v1.1.0", "starvoid/AcerRGB", time.Hour, nil)
	require.NoError(t, err)
	v.api = srv.URL

	_, err = v.getLatest(context.Background())
	require.Error(t, err)
}

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- n.Serve(ctx)
	}()

	n.C <- util.Notification{Title: "Keyboard", Message: "replay failed"}
	n.C <- util.Notification{Message: "no title"}
	require.Eventually(t, func() bool {
		return len(n.C) == 0
	}, time.Second, time.Millisecond*10)

	cancel()
	require.NoError(t, <-done)
}
