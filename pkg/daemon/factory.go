package daemon

import (
	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
)

// New returns a Client for the daemon at the default socket path. It fails
// when the runtime directory cannot be resolved.
func New() (Client, error) {
	socketPath, err := paths.SocketPath()
	if err != nil {
		return nil, err
	}
	return NewRemoteClient(socketPath), nil
}
