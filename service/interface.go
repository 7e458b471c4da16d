// Package service runs long-lived subsystems (audio, store, config watcher) in dependency order
package service

// Service is a subsystem managed by the Hub
// The hub calls Init on every service in dependency order, then Start on each,
// and Stop in reverse order on shutdown
type Service interface {
	// Name is the unique key other services list in Dependencies
	Name() string

	Dependencies() []string

	// Init receives the hub's shared args; each service picks the values of the types it needs
	Init(args ...any) error

	Start() error

	// Stop releases resources and may be called more than once
	Stop() error
}
