// Package daemon provides the client side of the steam-shortcut-sync control
// socket. Clients ask a running daemon for a sync pass or for its state.
package daemon

import (
	"context"

	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
)

// Client defines the interface for interacting with the sync daemon.
type Client interface {
	// RequestSync asks the daemon to run a reconciliation pass. It returns once
	// the request is delivered, not when the pass finishes.
	RequestSync(ctx context.Context) error

	// Status returns the daemon's pass counters and last pass.
	Status(ctx context.Context) (*store.State, error)

	// Watch streams state updates until the daemon stops or ctx is cancelled.
	Watch(ctx context.Context, fn func(store.Update) error) error

	// IsRunning returns true if the daemon is accepting connections.
	IsRunning() bool

	// SocketPath returns the socket the client talks to.
	SocketPath() string
}
