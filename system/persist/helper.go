package persist

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// settleDelay allows time for hardware configuration to propagate
const settleDelay = time.Millisecond * 25

// ConfigHelper contains a list of configurations to be applied in registration order
type ConfigHelper struct {
	mu            sync.Mutex
	alreadyClosed bool
	configs       []Registry
	delay         time.Duration
}

var _ ConfigRegistry = &ConfigHelper{}

// NewConfigHelper returns a helper applying the registered configs
func NewConfigHelper() (ConfigRegistry, error) {
	return &ConfigHelper{
		configs: make([]Registry, 0, 2),
		delay:   settleDelay,
	}, nil
}

// Register will add the config to the list. A config registered again under
// the same name replaces the previous one in place.
func (h *ConfigHelper) Register(config Registry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, c := range h.configs {
		if c.Name() == config.Name() {
			h.configs[i] = config
			return
		}
	}
	h.configs = append(h.configs, config)
}

// Apply will apply each config accordingly
func (h *ConfigHelper) Apply() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, config := range h.configs {
		if i > 0 {
			time.Sleep(h.delay)
		}
		log.Info().Msgf("persist: applying \"%s\" config", config.Name())
		if err := config.Apply(); err != nil {
			log.Error().Err(err).Msgf("persist: error applying \"%s\"", config.Name())
			return errors.Wrapf(err, "persist: applying \"%s\"", config.Name())
		}
	}

	return nil
}

// Close will release resources of each config
func (h *ConfigHelper) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.alreadyClosed {
		return
	}
	h.alreadyClosed = true

	for _, config := range h.configs {
		log.Info().Msgf("persist: closing \"%s\"", config.Name())
		if err := config.Close(); err != nil {
			log.Error().Err(err).Msgf("persist: error closing \"%s\"", config.Name())
		}
	}
}
