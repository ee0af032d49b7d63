package background

import (
	"context"

	"github.com/starvoid/AcerRGB/util"

	"github.com/rs/zerolog/log"
)

// Notifier collects user facing notifications from the controller, the
// supervisor and the version checker, and writes them to the log
type Notifier struct {
	C chan util.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{
		C: make(chan util.Notification, 10),
	}
}

func (n *Notifier) String() string {
	return "Notifier"
}

func (n *Notifier) Serve(haltCtx context.Context) error {
	log.Info().Msg("[notifier] starting notify loop")
	for {
		select {
		case msg := <-n.C:
			ev := log.Warn().Str("component", "notifier")
			if msg.Title != "" {
				ev = ev.Str("title", msg.Title)
			}
			ev.Msg(msg.Message)
		case <-haltCtx.Done():
			log.Info().Msg("[notifier] exiting notify loop")
			return nil
		}
	}
}
