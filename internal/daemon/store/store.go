package store

import (
	"sync"
	"sync/atomic"
)

// Store is the in-memory state store for the daemon.
// It is thread-safe and supports pub/sub for real-time updates.
//
// It also carries the process-wide running flag. The flag starts true and
// flips to false exactly once, when shutdown begins; producers poll it between
// blocking waits.
type Store struct {
	running     atomic.Bool
	mu          sync.RWMutex
	state       *State
	subscribers map[chan Update]struct{}
}

// New creates a new Store instance in the running state.
func New() *Store {
	s := &Store{
		state:       &State{},
		subscribers: make(map[chan Update]struct{}),
	}
	s.running.Store(true)
	return s
}

// Running reports whether the daemon is still accepting work.
func (s *Store) Running() bool {
	return s.running.Load()
}

// Stop clears the running flag. Only the first call notifies subscribers;
// it returns whether this call performed the transition.
func (s *Store) Stop() bool {
	if !s.running.CompareAndSwap(true, false) {
		return false
	}
	s.broadcast(Update{Type: UpdateStopped})
	return true
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := *s.state
	if st.LastPass != nil {
		p := *st.LastPass
		st.LastPass = &p
	}
	return st
}

// SetSyncing marks whether a pass is in flight.
func (s *Store) SetSyncing(syncing bool) {
	s.mu.Lock()
	s.state.Syncing = syncing
	s.mu.Unlock()
}

// RecordPass stores the outcome of a completed pass and notifies subscribers.
func (s *Store) RecordPass(p Pass) {
	s.mu.Lock()
	s.state.Passes++
	if p.Error != "" {
		s.state.Failed++
	}
	s.state.LastPass = &p
	s.mu.Unlock()

	s.broadcast(Update{Type: UpdatePass, Source: p.Trigger.Source, Pass: &p})
}

// RecordCoalesced counts a trigger that was folded into an already pending pass.
func (s *Store) RecordCoalesced(t Trigger) {
	s.mu.Lock()
	s.state.Coalesced++
	s.mu.Unlock()

	s.broadcast(Update{Type: UpdateCoalesced, Source: t.Source})
}

func (s *Store) broadcast(u Update) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send to prevent slow subscribers from stalling the daemon
		}
	}
}

// Subscribe creates a new subscription channel for state updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100) // Buffered
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}
