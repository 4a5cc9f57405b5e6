// Package store provides the in-memory run state shared by the daemon's
// producers, scheduler and clients.
package store

import (
	"time"

	"github.com/grovetools/steam-shortcut-sync/internal/daemon/syncer"
)

// Trigger is a level-triggered request for a reconciliation pass. It carries
// no payload beyond where it came from.
type Trigger struct {
	Source string    `json:"source"` // "startup", "watcher", "socket"
	At     time.Time `json:"at"`
}

// Pass records one completed reconciliation pass.
type Pass struct {
	Trigger Trigger       `json:"trigger"`
	Report  syncer.Report `json:"report"`
	Error   string        `json:"error,omitempty"`
}

// State is the daemon's world view.
type State struct {
	Passes    int   `json:"passes"`
	Coalesced int   `json:"coalesced"`
	Failed    int   `json:"failed"`
	Syncing   bool  `json:"syncing"`
	LastPass  *Pass `json:"last_pass,omitempty"`
}

// UpdateType defines what kind of data changed.
type UpdateType string

const (
	// UpdateSnapshot carries the full state; watchers receive it first.
	UpdateSnapshot  UpdateType = "snapshot"
	UpdatePass      UpdateType = "pass"
	UpdateCoalesced UpdateType = "coalesced"
	UpdateStopped   UpdateType = "stopped"
)

// Update represents a change to the state. It is also the line format of the
// socket's watch stream.
type Update struct {
	Type   UpdateType `json:"type"`
	Source string     `json:"source,omitempty"` // Trigger source that caused the update, if any
	Pass   *Pass      `json:"pass,omitempty"`
	State  *State     `json:"state,omitempty"`
}
