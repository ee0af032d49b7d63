package power

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// Defines the type of event, same values as the kernel PM notifier actions
const (
	PM_POST_HIBERNATION uint32 = 2
	PM_POST_SUSPEND     uint32 = 4
)

// Defines the signals a system-sleep hook sends after the machine is back
var (
	SignalPostHibernation = unix.SIGUSR1
	SignalPostSuspend     = unix.SIGUSR2
)

// ListenerConfig controls the clock jump detection. A zero PollInterval
// disables it, leaving only the signals.
type ListenerConfig struct {
	PollInterval  time.Duration
	JumpThreshold time.Duration
}

// NewEventListener will listen for resume notifications and send events to the channel
func NewEventListener(haltCtx context.Context, eventCh chan<- uint32, conf ListenerConfig) error {
	sigCh := make(chan os.Signal, 1)
	log.Info().Msg("power: registering resume notification")
	signal.Notify(sigCh, SignalPostHibernation, SignalPostSuspend)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case sig := <-sigCh:
				ev := PM_POST_SUSPEND
				if sig == SignalPostHibernation {
					ev = PM_POST_HIBERNATION
				}
				log.Info().Msgf("power: received %s", sig)
				send(haltCtx, eventCh, ev)
			case <-haltCtx.Done():
				log.Info().Msg("power: unregistering resume notification")
				return
			}
		}
	}()

	if conf.PollInterval > 0 {
		go watchClock(haltCtx, eventCh, conf)
	}

	return nil
}

func send(haltCtx context.Context, eventCh chan<- uint32, ev uint32) {
	select {
	case eventCh <- ev:
	case <-haltCtx.Done():
	}
}

// watchClock reports a resume when the wall clock moved further than the
// monotonic clock, which stops while the machine sleeps
func watchClock(haltCtx context.Context, eventCh chan<- uint32, conf ListenerConfig) {
	start := time.Now()
	d := newJumpDetector(conf.JumpThreshold, start.Round(0), 0)

	ticker := time.NewTicker(conf.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if gap, jumped := d.observe(now.Round(0), now.Sub(start)); jumped {
				log.Info().Msgf("power: wall clock jumped %s ahead, assuming resume", gap)
				send(haltCtx, eventCh, PM_POST_SUSPEND)
			}
		case <-haltCtx.Done():
			return
		}
	}
}

type jumpDetector struct {
	threshold time.Duration
	lastWall  time.Time
	lastMono  time.Duration
}

func newJumpDetector(threshold time.Duration, wall time.Time, mono time.Duration) *jumpDetector {
	return &jumpDetector{
		threshold: threshold,
		lastWall:  wall,
		lastMono:  mono,
	}
}

// observe records a sample and reports how far the wall clock outran the
// monotonic clock since the previous one
func (d *jumpDetector) observe(wall time.Time, mono time.Duration) (time.Duration, bool) {
	gap := wall.Sub(d.lastWall) - (mono - d.lastMono)
	d.lastWall = wall
	d.lastMono = mono
	return gap, gap > d.threshold
}
