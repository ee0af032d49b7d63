package persist

// Registry provides an interface for different configurations to be re-applied
type Registry interface {
	// Name should return the name of the configuration
	Name() string
	// Apply should re-apply configurations
	Apply() error
	// Close should handle graceful shutdown (e.g. closing sockets, etc)
	Close() error
}

// ConfigRegistry defines an interface to apply configs in each Registry
type ConfigRegistry interface {
	// Register should register the given Registry to be applied
	Register(registry Registry)
	// Apply should instruct each Registry to apply the configurations
	Apply() error
	// Close should instruct each Registry to close/clean up
	Close()
}
