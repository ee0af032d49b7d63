package controller

import (
	"context"

	"github.com/starvoid/AcerRGB/system/plugin"
	"github.com/starvoid/AcerRGB/system/power"
	"github.com/starvoid/AcerRGB/util"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func (c *Controller) handlePowerEvent(haltCtx context.Context, queues map[uint32]workQueue) {
	for {
		select {
		case ev := <-c.powerEvCh:
			var work uint32
			switch ev {
			case power.PM_POST_HIBERNATION:
				log.Info().Msg("[controller] housekeeping after hibernation")
				work = fnAfterHibernation
			case power.PM_POST_SUSPEND:
				log.Info().Msg("[controller] housekeeping after suspend")
				work = fnAfterSuspend
			default:
				log.Warn().Msgf("[controller] unknown power event %d", ev)
				continue
			}
			select {
			case queues[work].noisy <- ev:
			case <-haltCtx.Done():
				return
			}
		case <-haltCtx.Done():
			log.Info().Msg("[controller] exiting handlePowerEvent")
			return
		}
	}
}

func (c *Controller) handleWorkQueue(haltCtx context.Context, queues map[uint32]workQueue) {
	for {
		select {
		case <-queues[fnApplyConfigs].clean:
			if err := c.Config.Registry.Apply(); err != nil {
				select {
				case c.errorCh <- errors.Wrap(err, "[controller] error applying configurations"):
				case <-haltCtx.Done():
				}
				return
			}

		case ev := <-queues[fnAfterHibernation].clean:
			log.Info().Msgf("[controller] re-apply keyboard configuration (%d resume events)", ev.Counter)
			c.notifyPlugins(plugin.EvtACPIPostHibernation, nil)

		case ev := <-queues[fnAfterSuspend].clean:
			if !c.Config.ReplayOnSuspend {
				log.Debug().Msg("[controller] replay on suspend is disabled")
				continue
			}
			log.Info().Msgf("[controller] re-apply keyboard configuration (%d resume events)", ev.Counter)
			c.notifyPlugins(plugin.EvtKbReplay, nil)

		case <-haltCtx.Done():
			log.Info().Msg("[controller] exiting handleWorkQueue")
			return
		}
	}
}

func (c *Controller) notifyPlugins(evt plugin.Event, val interface{}) {
	t := plugin.Task{
		Event: evt,
		Value: val,
	}
	for _, p := range c.Config.Plugins {
		go p.Notify(t)
	}
}

func (c *Controller) handlePluginCallback(haltCtx context.Context) {
	for {
		select {
		case t := <-c.pluginCbCh:
			switch t.Event {
			case plugin.CbNotify:
				msg, ok := t.Value.(string)
				if !ok {
					continue
				}
				log.Warn().Msgf("[controller] %s", msg)
				if c.Config.Notifier == nil {
					continue
				}
				select {
				case c.Config.Notifier <- util.Notification{Title: "Keyboard", Message: msg}:
				case <-haltCtx.Done():
					return
				}
			default:
				log.Debug().Msgf("[controller] plugin callback %s: %+v", t.Event, t.Value)
			}
		case <-haltCtx.Done():
			log.Info().Msg("[controller] exiting handlePluginCallback")
			return
		}
	}
}
