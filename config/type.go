package config

import "context"

// ConfigSource is one layer of configuration. Sources are merged in the order
// they are given to the Manager; later layers win.
type ConfigSource interface {
	// Load returns a fresh nested map. Implementations must honour ctx.
	Load(ctx context.Context) (map[string]any, error)

	// Watch sends on ch whenever the source changes, until ctx is done.
	// Sources that cannot change return nil immediately.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs, e.g. "file" or "env".
	Name() string
}

// Event describes a configuration change.
type Event struct {
	// ChangedKeys holds the top-level config keys whose values changed,
	// e.g. ["server", "modules"].
	ChangedKeys []string
	OldConfig   any
	NewConfig   any
}
