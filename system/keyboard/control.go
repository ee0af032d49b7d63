package keyboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/starvoid/AcerRGB/system/persist"
	"github.com/starvoid/AcerRGB/system/plugin"
	"github.com/starvoid/AcerRGB/system/rgb"
	"github.com/starvoid/AcerRGB/system/wmi"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	persistKey = "KeyboardColor"

	// defaultNotifyTimeout bounds how long Notify waits for the queue loop
	defaultNotifyTimeout = time.Second * 5
)

// Config holds the firmware interface and the configuration string replayed
// at startup and after hibernation
type Config struct {
	WMI      wmi.WMI
	InitConf string
}

// Control applies command strings to the keyboard backlight. Writes are
// serialized, only one record is built at a time.
type Control struct {
	mu       sync.Mutex
	wmi      wmi.WMI
	writer   *rgb.Writer
	initConf string

	queue         chan plugin.Task
	errChan       chan error
	notifyTimeout time.Duration
}

var _ plugin.Plugin = &Control{}

// NewControl returns a keyboard control writing to conf.WMI
func NewControl(conf Config) (*Control, error) {
	if conf.WMI == nil {
		return nil, errors.New("kbCtrl: nil WMI is invalid")
	}
	writer, err := rgb.NewWriter(conf.WMI)
	if err != nil {
		return nil, err
	}
	return &Control{
		wmi:      conf.WMI,
		writer:   writer,
		initConf: conf.InitConf,
		queue:    make(chan plugin.Task),
		errChan:  make(chan error),

		notifyTimeout: defaultNotifyTimeout,
	}, nil
}

// Initialize decodes the init configuration without touching the firmware,
// so a malformed string is reported before anything is applied
func (c *Control) Initialize() error {
	log.Info().Msg("kbCtrl: validating init configuration")
	if c.initConf == "" {
		return nil
	}
	check, _ := rgb.NewWriter(wmi.NewRecorder())
	if _, err := check.WriteString(c.initConf); err != nil {
		return errors.Wrap(err, "kbCtrl: invalid init configuration")
	}
	return nil
}

// Run satisfies system/plugin.Plugin
func (c *Control) Run(haltCtx context.Context, cb chan<- plugin.Callback) <-chan error {
	log.Info().Msg("kbCtrl: Starting queue loop")

	go func() {
		for {
			select {
			case t := <-c.queue:
				switch t.Event {
				case plugin.EvtKbReplay, plugin.EvtACPIPostHibernation:
					c.report(haltCtx, cb, "replay", c.Replay())
				default:
					log.Debug().Msgf("kbCtrl: ignoring %s", t.Event)
				}
			case <-haltCtx.Done():
				log.Info().Msg("kbCtrl: exiting Plugin run loop")
				return
			}
		}
	}()

	return c.errChan
}

// report forwards failures to the controller. A WMI that cannot be reached at
// all is unrecoverable, anything else is only notified.
func (c *Control) report(haltCtx context.Context, cb chan<- plugin.Callback, op string, err error) {
	if err == nil {
		return
	}
	var dispatchErr *rgb.DispatchError
	var fatal error
	if errors.As(err, &dispatchErr) && rgb.Code(err) == rgb.CodeIO {
		fatal = err
	}

	select {
	case cb <- plugin.Callback{
		Event: plugin.CbNotify,
		Value: fmt.Sprintf("Keyboard %s failed (%d): %s", op, rgb.Code(err), err),
	}:
	case <-haltCtx.Done():
		return
	}

	if fatal != nil {
		select {
		case c.errChan <- fatal:
		case <-haltCtx.Done():
		}
	}
}

// Notify satisfies system/plugin.Plugin. A task is dropped when the queue
// loop does not pick it up within the notify timeout, which happens while the
// controller is stopped.
func (c *Control) Notify(t plugin.Task) {
	timer := time.NewTimer(c.notifyTimeout)
	defer timer.Stop()

	select {
	case c.queue <- t:
	case <-timer.C:
		log.Warn().Msgf("kbCtrl: queue loop not running, dropping %s", t.Event)
	}
}

// Write decodes p and applies the resulting records
func (c *Control) Write(p []byte) (int, error) {
	return c.WriteFrom(rgb.Bytes(p), len(p))
}

// WriteFrom decodes length bytes of src and applies the resulting records. It
// does not need the queue loop, so writes keep working while the controller
// restarts.
func (c *Control) WriteFrom(src rgb.ByteSource, length int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.writer.WriteFrom(src, length)
	if err != nil {
		log.Error().Err(err).Int("code", rgb.Code(err)).Msg("kbCtrl: write failed")
		return n, err
	}
	log.Debug().Msgf("kbCtrl: applied %d bytes", n)
	return n, nil
}

// Replay applies the init configuration again. It does nothing without one.
func (c *Control) Replay() error {
	if c.initConf == "" {
		return nil
	}
	log.Info().Msg("kbCtrl: restoring keyboard color status")
	_, err := c.Write([]byte(c.initConf))
	return err
}

var _ persist.Registry = &Control{}

// Name satisfies persist.Registry
func (c *Control) Name() string {
	return persistKey
}

// Apply satisfies persist.Registry
func (c *Control) Apply() error {
	return c.Replay()
}

// Close satisfied persist.Registry
func (c *Control) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.wmi.Close()
}
