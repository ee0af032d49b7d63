package wmi

import (
	"github.com/rs/zerolog/log"
)

// outputBufferLength is the size of the status buffer returned by the firmware
const outputBufferLength = 8

type dryWmi struct{}

var _ WMI = &dryWmi{}

// NewDryWMI returns an WMI without actual IOs
func NewDryWMI() (WMI, error) {
	return &dryWmi{}, nil
}

func (d *dryWmi) Evaluate(id Method, args []byte) ([]byte, error) {
	log.Info().Msgf("[dry run] wmi: evaluate %s on %s input buffer: %+v", id, GUID4, args)
	return make([]byte, outputBufferLength), nil
}

func (d *dryWmi) Close() error {
	return nil
}
