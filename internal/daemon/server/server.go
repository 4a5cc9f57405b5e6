// Package server provides the daemon's unix socket control listener.
//
// The wire protocol is a single payload per connection: the client writes
// its request, half-closes, and the server acts on the full payload. WATCH
// keeps the connection open and streams one JSON update per line.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
)

const (
	// RunSync requests a reconciliation pass.
	RunSync = "RUN_SYNC"
	// Status requests the daemon state as JSON.
	Status = "STATUS"
	// Watch requests a stream of state updates, starting with a snapshot.
	Watch = "WATCH"

	// Source is the trigger source name reported by the server.
	Source = "socket"

	// DefaultPollInterval bounds how long Accept blocks before the running
	// flag is re-checked.
	DefaultPollInterval = 500 * time.Millisecond

	readTimeout = 5 * time.Second
	maxPayload  = 4096
)

// Server accepts control connections on a unix socket.
type Server struct {
	socketPath   string
	pollInterval time.Duration
	logger       *logrus.Entry
	listener     *net.UnixListener
	watchers     sync.WaitGroup
}

// New creates a Server for socketPath. Call Listen before Run to surface bind
// errors at startup.
func New(socketPath string, pollInterval time.Duration, logger *logrus.Entry) *Server {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		socketPath:   socketPath,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Name identifies the server in logs.
func (s *Server) Name() string { return Source }

// SocketPath returns the path the server binds.
func (s *Server) SocketPath() string { return s.socketPath }

// Listen binds the socket, replacing a stale one.
func (s *Server) Listen() error {
	// Cleanup stale socket
	if _, err := os.Lstat(s.socketPath); err == nil {
		if err := os.Remove(s.socketPath); err != nil {
			return errors.SocketBindFailed(s.socketPath, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0700); err != nil {
		return errors.SocketBindFailed(s.socketPath, err)
	}

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: s.socketPath, Net: "unix"})
	if err != nil {
		return errors.SocketBindFailed(s.socketPath, err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		_ = listener.Close()
		return errors.SocketBindFailed(s.socketPath, err)
	}

	s.listener = listener
	s.logger.WithField("socket", s.socketPath).Info("Daemon listening")
	return nil
}

// Run accepts connections until the store stops running or ctx is cancelled.
// Requests are handled one at a time; watch streams run alongside and end
// when the store stops.
func (s *Server) Run(ctx context.Context, st *store.Store, triggers chan<- store.Trigger) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	defer s.watchers.Wait()
	defer s.Close()

	for st.Running() && ctx.Err() == nil {
		if err := s.listener.SetDeadline(time.Now().Add(s.pollInterval)); err != nil {
			return errors.SocketBindFailed(s.socketPath, err)
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if stderrors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.WithError(err).Warn("Failed to accept connection")
			continue
		}

		s.handle(ctx, conn, st, triggers)
	}
	return nil
}

func (s *Server) handle(ctx context.Context, conn net.Conn, st *store.Store, triggers chan<- store.Trigger) {
	if err := conn.SetDeadline(time.Now().Add(readTimeout)); err != nil {
		s.logger.WithError(err).Debug("Failed to set connection deadline")
	}

	data, err := io.ReadAll(io.LimitReader(conn, maxPayload))
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read request")
		conn.Close()
		return
	}

	if string(data) == Watch {
		_ = conn.SetDeadline(time.Time{})
		s.watchers.Add(1)
		go func() {
			defer s.watchers.Done()
			defer conn.Close()
			s.stream(ctx, conn, st)
		}()
		return
	}
	defer conn.Close()

	switch string(data) {
	case RunSync:
		s.logger.Debug("Sync requested over socket")
		select {
		case triggers <- store.Trigger{Source: Source, At: time.Now()}:
		case <-ctx.Done():
		}
	case Status:
		if err := json.NewEncoder(conn).Encode(st.Get()); err != nil {
			s.logger.WithError(err).Warn("Failed to write status")
		}
	default:
		s.logger.WithField("payload", string(data)).Debug("Ignoring unknown request")
	}
}

// stream writes a snapshot and then every store update until the store
// stops, ctx is cancelled or a write fails.
func (s *Server) stream(ctx context.Context, conn net.Conn, st *store.Store) {
	ch := st.Subscribe()
	defer st.Unsubscribe(ch)

	log := s.logger.WithField("request", Watch)
	log.Debug("Watcher connected")
	defer log.Debug("Watcher disconnected")

	enc := json.NewEncoder(conn)
	state := st.Get()
	if err := enc.Encode(store.Update{Type: store.UpdateSnapshot, State: &state}); err != nil {
		return
	}
	// Stop may have happened before Subscribe
	if !st.Running() {
		_ = enc.Encode(store.Update{Type: store.UpdateStopped})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			if err := enc.Encode(u); err != nil {
				log.WithError(err).Debug("Failed to write update")
				return
			}
			if u.Type == store.UpdateStopped {
				return
			}
		}
	}
}

// Close stops listening and removes the socket file.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	s.listener.SetUnlinkOnClose(true)
	err := s.listener.Close()
	if err != nil && !stderrors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
