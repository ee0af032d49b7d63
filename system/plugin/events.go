package plugin

// Event defines the type of notification from controller to plugins
type Event int

// Define all the possible controller->plugin notifications
const (
	EvtKbReplay Event = iota
	EvtACPIPostHibernation

	CbNotify
)

func (e Event) String() string {
	return [...]string{
		"Event: Keyboard replay init configuration",
		"Event: ACPI Resume from hibernation",

		"Callback: Request to notify user",
	}[e]
}
