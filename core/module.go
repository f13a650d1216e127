package core

import "context"

// Descriptor is the identity a module declares. It is read once at discovery
// and never changes afterwards.
type Descriptor struct {
	// ID is unique among loaded modules and keys the dependency graph.
	ID string
	// DisplayName is a human-readable label.
	DisplayName string
	// Dependencies lists module IDs that must be started first.
	Dependencies []string
	// Enabled is set by discovery from configuration; whatever a module
	// returns here is overwritten.
	Enabled bool
}

// Name returns DisplayName, falling back to ID.
func (d Descriptor) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.ID
}

// Module is a unit of capability that participates in the app lifecycle.
type Module interface {
	Descriptor() Descriptor
	// Initialize registers capabilities into the container. Every module is
	// initialized before any module is started.
	Initialize(ctx context.Context, c Container) error
	// Start begins any long-running work or servers.
	Start(ctx context.Context, c Container) error
	// Stop gracefully stops the module.
	Stop(ctx context.Context, c Container) error
	// Dispose releases whatever Initialize acquired. It is called for every
	// initialized module, started or not.
	Dispose(ctx context.Context, c Container) error
}

// Base provides no-op lifecycle methods. Embed it and override what you need.
type Base struct{}

func (Base) Initialize(context.Context, Container) error { return nil }
func (Base) Start(context.Context, Container) error      { return nil }
func (Base) Stop(context.Context, Container) error       { return nil }
func (Base) Dispose(context.Context, Container) error    { return nil }
