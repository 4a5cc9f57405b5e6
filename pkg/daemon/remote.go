package daemon

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/server"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
)

// DefaultDialTimeout bounds connection attempts to the daemon.
const DefaultDialTimeout = 2 * time.Second

// RemoteClient talks to a daemon over its unix socket.
type RemoteClient struct {
	socketPath  string
	dialTimeout time.Duration
}

// NewRemoteClient creates a client for the daemon listening on socketPath.
func NewRemoteClient(socketPath string) *RemoteClient {
	return &RemoteClient{
		socketPath:  socketPath,
		dialTimeout: DefaultDialTimeout,
	}
}

// SocketPath returns the socket the client talks to.
func (c *RemoteClient) SocketPath() string { return c.socketPath }

// RequestSync sends RUN_SYNC to the daemon.
func (c *RemoteClient) RequestSync(ctx context.Context) error {
	conn, err := c.send(ctx, server.RunSync)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Status fetches the daemon state.
func (c *RemoteClient) Status(ctx context.Context) (*store.State, error) {
	conn, err := c.send(ctx, server.Status)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	var st store.State
	if err := json.NewDecoder(conn).Decode(&st); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to decode daemon status")
	}
	return &st, nil
}

// Watch streams daemon updates to fn, starting with a snapshot of the state.
// It returns nil when the daemon stops or ctx is cancelled, and fn's error if
// fn fails.
func (c *RemoteClient) Watch(ctx context.Context, fn func(store.Update) error) error {
	conn, err := c.send(ctx, server.Watch)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	dec := json.NewDecoder(conn)
	for {
		var u store.Update
		if err := dec.Decode(&u); err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to decode daemon update")
		}
		if err := fn(u); err != nil {
			return err
		}
		if u.Type == store.UpdateStopped {
			return nil
		}
	}
}

// IsRunning returns true if the socket exists and accepts a connection.
func (c *RemoteClient) IsRunning() bool {
	if _, err := os.Stat(c.socketPath); err != nil {
		return false
	}
	conn, err := net.DialTimeout("unix", c.socketPath, 100*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// send writes payload and half-closes the connection so the daemon sees the
// end of the request.
func (c *RemoteClient) send(ctx context.Context, payload string) (*net.UnixConn, error) {
	if _, err := os.Stat(c.socketPath); err != nil {
		return nil, errors.DaemonNotRunning(c.socketPath)
	}

	dialer := net.Dialer{Timeout: c.dialTimeout}
	raw, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSocketDial, "failed to connect to daemon").
			WithDetail("socket", c.socketPath)
	}
	conn := raw.(*net.UnixConn)

	if _, err := conn.Write([]byte(payload)); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, errors.ErrCodeSocketWrite, "failed to send request").
			WithDetail("socket", c.socketPath)
	}
	if err := conn.CloseWrite(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, errors.ErrCodeSocketWrite, "failed to finish request").
			WithDetail("socket", c.socketPath)
	}
	return conn, nil
}
