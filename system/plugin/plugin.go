package plugin

import "context"

// Task is a notification sent to a Plugin
type Task struct {
	Event Event
	Value interface{}
}

// Callback is a request from a Plugin back to the controller
type Callback struct {
	Event Event
	Value interface{}
}

// Plugin is a unit of work driven by the controller loop
type Plugin interface {
	Initialize() error
	Run(haltCtx context.Context, cb chan<- Callback) <-chan error
	Notify(t Task)
}
