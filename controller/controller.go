package controller

import (
	"context"
	"time"

	"github.com/starvoid/AcerRGB/system/persist"
	"github.com/starvoid/AcerRGB/system/plugin"
	"github.com/starvoid/AcerRGB/system/power"
	"github.com/starvoid/AcerRGB/util"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

const (
	// DefaultResumeDebounce collapses the signal and the clock jump reported for the same resume
	DefaultResumeDebounce = time.Second
)

const (
	fnApplyConfigs     = iota // for loading and re-applying configurations
	fnAfterHibernation        // for replaying after hibernation
	fnAfterSuspend            // for replaying after suspend when enabled
)

// Config contains the configurations for the controller
type Config struct {
	Plugins  []plugin.Plugin
	Registry persist.ConfigRegistry

	// ReplayOnSuspend also replays the keyboard configuration after a plain suspend
	ReplayOnSuspend bool
	Power           power.ListenerConfig
	ResumeDebounce  time.Duration

	// Notifier is optional
	Notifier chan<- util.Notification
}

type workQueue struct {
	noisy chan<- interface{}
	clean <-chan util.DebounceEvent
}

// Controller contains configuration for the controller loop
type Controller struct {
	Config

	errorCh chan error

	powerEvCh  chan uint32
	pluginCbCh chan plugin.Callback
}

var _ suture.Service = &Controller{}

// New returns a controller ready to be added to a supervisor
func New(conf Config) (*Controller, error) {
	if conf.Registry == nil {
		return nil, errors.New("[controller] nil Registry is invalid")
	}
	if len(conf.Plugins) == 0 {
		return nil, errors.New("[controller] empty Plugins is invalid")
	}
	if conf.ResumeDebounce <= 0 {
		conf.ResumeDebounce = DefaultResumeDebounce
	}
	return &Controller{
		Config: conf,

		errorCh: make(chan error),

		powerEvCh:  make(chan uint32, 1),
		pluginCbCh: make(chan plugin.Callback, 1),
	}, nil
}

// initialize returns the work queues of one Serve run
func (c *Controller) initialize(haltCtx context.Context) (map[uint32]workQueue, error) {
	for _, p := range c.Config.Plugins {
		if err := p.Initialize(); err != nil {
			return nil, errors.Wrap(err, "[controller] plugin initializtion error")
		}
	}

	err := power.NewEventListener(haltCtx, c.powerEvCh, c.Config.Power)
	if err != nil {
		return nil, errors.Wrap(err, "[controller] error initializing power event listener")
	}

	queues := make(map[uint32]workQueue, 4)

	in, out := util.PassThrough(haltCtx)
	queues[fnApplyConfigs] = workQueue{
		noisy: in,
		clean: out,
	}

	workQueueDebounced := []uint32{
		fnAfterHibernation,
		fnAfterSuspend,
	}
	for _, work := range workQueueDebounced {
		in, out := util.Debounce(haltCtx, c.Config.ResumeDebounce)
		queues[work] = workQueue{
			noisy: in,
			clean: out,
		}
	}

	return queues, nil
}

func (c *Controller) startPlugins(haltCtx context.Context) {
	for _, p := range c.Config.Plugins {
		errChan := p.Run(haltCtx, c.pluginCbCh)
		go func(ch <-chan error) {
			for {
				select {
				case <-haltCtx.Done():
					return
				case err := <-ch:
					if err != nil {
						log.Error().Err(err).Msg("[controller] plugin returned error")
						select {
						case c.errorCh <- err:
						case <-haltCtx.Done():
						}
					}
				}
			}
		}(errChan)
	}
}

func (c *Controller) String() string {
	return "Controller"
}

// Serve will start the controller loop and blocked until context cancel, or an error has occurred
func (c *Controller) Serve(haltCtx context.Context) error {
	ctx, cancel := context.WithCancel(haltCtx)
	defer cancel()

	log.Info().Msg("[controller] starting controller loop")

	queues, err := c.initialize(ctx)
	if err != nil {
		return errors.Wrap(err, "[controller] error initializing")
	}

	c.startPlugins(ctx)

	// defined in controller_loop.go
	go c.handlePluginCallback(ctx)
	go c.handleWorkQueue(ctx, queues)
	go c.handlePowerEvent(ctx, queues)

	// load and apply configurations
	select {
	case queues[fnApplyConfigs].noisy <- struct{}{}:
	case <-ctx.Done():
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[controller] stopping controller loop")
			return nil
		case err := <-c.errorCh:
			log.Error().Err(err).Msg("[controller] unrecoverable error in controller loop")
			return err
		}
	}
}
