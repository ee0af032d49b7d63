package util

// Notification is a message for the user, shown by the background notifier
type Notification struct {
	Title   string
	Message string
}
