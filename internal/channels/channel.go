// Package channels defines the transport abstraction the bot runs behind
// and the shared per-user reply throttle.
package channels

import "context"

// Channel is the lifecycle contract a messaging transport implements.
type Channel interface {
	// Name returns the channel identifier (e.g. "telegram").
	Name() string

	// Start begins receiving updates. Non-blocking after setup.
	Start(ctx context.Context) error

	// Stop gracefully shuts the channel down.
	Stop(ctx context.Context) error

	// IsRunning reports whether the channel is processing updates.
	IsRunning() bool
}

// BaseChannel provides shared bookkeeping for channel implementations,
// which embed it.
type BaseChannel struct {
	name    string
	running bool
}

// NewBaseChannel creates a new BaseChannel with the given name.
func NewBaseChannel(name string) *BaseChannel {
	return &BaseChannel{name: name}
}

// Name returns the channel name.
func (c *BaseChannel) Name() string { return c.name }

// IsRunning returns whether the channel is running.
func (c *BaseChannel) IsRunning() bool { return c.running }

// SetRunning updates the running state.
func (c *BaseChannel) SetRunning(running bool) { c.running = running }
