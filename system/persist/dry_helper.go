package persist

import "github.com/rs/zerolog/log"

type dryConfigHelper struct {
	*ConfigHelper
}

var _ ConfigRegistry = &dryConfigHelper{}

// NewDryConfigHelper returns a helper that registers configs but never applies them
func NewDryConfigHelper() (ConfigRegistry, error) {
	log.Info().Msg("[dry run] persist: initializing helper without apply IOs")
	return &dryConfigHelper{
		ConfigHelper: &ConfigHelper{
			delay: settleDelay,
		},
	}, nil
}

// Apply will do nothing
func (d *dryConfigHelper) Apply() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, config := range d.configs {
		log.Info().Msgf("[dry run] persist: skip applying \"%s\" config", config.Name())
	}
	return nil
}
