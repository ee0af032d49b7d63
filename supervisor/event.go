package supervisor

import (
	"fmt"

	"github.com/starvoid/AcerRGB/util"

	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

type EventHook struct {
	Notifier chan<- util.Notification
}

func (e *EventHook) Event(evt suture.Event) {
	log.Debug().Msgf("[supervisor] event: %s", evt)
	defer func() {
		if err := recover(); err != nil {
			log.Error().Msgf("[supervisor] event hook panic: %+v", err)
		}
	}()
	m := evt.Map()
	switch evt.Type() {
	case suture.EventTypeServiceTerminate, suture.EventTypeServicePanic:
		name, _ := m["service_name"].(string)
		log.Warn().Msgf("[supervisor] %s crashed unexpectedly, restarting", name)
		if e.Notifier == nil {
			return
		}
		select {
		case e.Notifier <- util.Notification{
			Message: fmt.Sprintf("%s crashed unexpectedly, restarting...", name),
		}:
		default:
		}
	}
}
