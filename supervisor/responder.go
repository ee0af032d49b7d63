package supervisor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	suture "github.com/thejerf/suture/v4"
)

// ControllerState is the lifecycle state of the controller as seen by the responder
type ControllerState int

const (
	ControllerStopped ControllerState = iota
	ControllerRunning
	ControllerUnknown
)

func (s ControllerState) String() string {
	return [...]string{"Stopped", "Running", "Unknown"}[s]
}

// Request asks the responder to change or report the controller lifecycle
type Request int

const (
	RequestStartController Request = iota
	RequestStopController
	RequestReloadController
	RequestCheckState
)

// ControllerRequest is sent on ControllerResponder.ReqCh, the outcome is sent on Response
type ControllerRequest struct {
	Request  Request
	Response chan ControllerResponse
}

// ControllerResponse is the outcome of a ControllerRequest
type ControllerResponse struct {
	Error error
	State ControllerState
}

// ControllerResponder owns the controller lifecycle. Start adds a fresh
// controller to Supervisor, Stop removes it, Reload does both so the
// configurations are applied again.
type ControllerResponder struct {
	Supervisor    *suture.Supervisor
	ReqCh         chan ControllerRequest
	NewController func() (suture.Service, error)
	StopTimeout   time.Duration

	childToken      suture.ServiceToken
	controllerState ControllerState
}

func (m *ControllerResponder) String() string {
	return "ControllerResponder"
}

func (m *ControllerResponder) Serve(haltCtx context.Context) error {
	if m.Supervisor == nil || m.NewController == nil {
		return errors.New("[supervisor] responder needs a Supervisor and a NewController")
	}
	if m.StopTimeout <= 0 {
		m.StopTimeout = time.Second * 2
	}

	log.Info().Msg("[supervisor] starting responder loop")

	for {
		select {
		case s := <-m.ReqCh:
			var err error
			switch s.Request {
			case RequestStartController:
				err = m.doStartController()
			case RequestStopController:
				err = m.doStopController()
			case RequestReloadController:
				if err = m.doStopController(); err == nil {
					err = m.doStartController()
				}
			case RequestCheckState:
			default:
				err = errors.Errorf("unknown request %d", s.Request)
			}
			if err != nil {
				log.Error().Err(err).Msg("[supervisor] controller request failed")
			}
			if s.Response != nil {
				s.Response <- ControllerResponse{
					Error: err,
					State: m.controllerState,
				}
			}
		case <-haltCtx.Done():
			log.Info().Msg("[supervisor] exiting ControllerResponder")
			return nil
		}
	}
}

func (m *ControllerResponder) doStartController() error {
	switch m.controllerState {
	case ControllerRunning:
		return errors.New("Controller is already running")
	case ControllerUnknown:
		return errors.New("Controller is in unknown state")
	}

	control, err := m.NewController()
	if err != nil {
		return err
	}

	controllerSupervisor := suture.New("controllerSupervisor", suture.Spec{})
	controllerSupervisor.Add(control)
	m.childToken = m.Supervisor.Add(controllerSupervisor)
	m.controllerState = ControllerRunning

	log.Info().Msg("[supervisor] controller started")
	return nil
}

func (m *ControllerResponder) doStopController() error {
	switch m.controllerState {
	case ControllerStopped:
		return errors.New("Controller is not running")
	case ControllerUnknown:
		return errors.New("Controller is in unknown state")
	}

	if err := m.Supervisor.RemoveAndWait(m.childToken, m.StopTimeout); err != nil {
		m.controllerState = ControllerUnknown
		return err
	}
	m.controllerState = ControllerStopped

	log.Info().Msg("[supervisor] controller stopped")
	return nil
}
