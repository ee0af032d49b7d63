package wmi

import "fmt"

// GUID4 is the WMI interface carrying the gaming keyboard methods
const GUID4 = "7A4DDFE7-5B5D-40B4-8595-4408E0CC7F56"

// Method is a method id on the GUID4 interface (instance 0)
type Method uint32

// Defines the method ids for the keyboard backlight records
const (
	SetGamingStaticLED Method = 6
	SetGamingKBBL      Method = 20
)

func (m Method) String() string {
	switch m {
	case SetGamingStaticLED:
		return "SetGamingStaticLED"
	case SetGamingKBBL:
		return "SetGamingKBBL"
	}
	return fmt.Sprintf("Method(%d)", uint32(m))
}

// WMI evaluates firmware methods with an input buffer. Implementations must
// report a firmware rejection as a *StatusError.
type WMI interface {
	Evaluate(id Method, args []byte) ([]byte, error)
	Close() error
}

// StatusError is returned when the firmware rejects an input buffer. Only the
// sign of Status is meaningful.
type StatusError struct {
	Method Method
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wmi: %s failed with code: %d", e.Method, e.Status)
}
