package syncer

import (
	"time"

	"github.com/grovetools/steam-shortcut-sync/internal/shortcut"
)

// Op names the mutation a per-item failure happened in.
type Op string

const (
	OpWriteEntry  Op = "write_entry"
	OpRemoveEntry Op = "remove_entry"
	OpCopyIcon    Op = "copy_icon"
	OpRemoveIcon  Op = "remove_icon"
	// OpCollision marks a source shortcut skipped because another one owns
	// its entry file.
	OpCollision Op = "collision"
)

// ItemFailure records one non-fatal failure during a pass.
type ItemFailure struct {
	Record  shortcut.Record `json:"record"`
	Op      Op              `json:"op"`
	Message string          `json:"message"`
	Err     error           `json:"-"`
}

// Error returns the failure message.
func (f ItemFailure) Error() string {
	return string(f.Op) + " " + f.Record.Name + ": " + f.Err.Error()
}

// Report summarizes a completed pass.
type Report struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Added     int           `json:"added"`
	Removed   int           `json:"removed"`
	Kept      int           `json:"kept"`
	Failures  []ItemFailure `json:"failures,omitempty"`
}

// OK reports whether every per-item mutation succeeded.
func (r Report) OK() bool { return len(r.Failures) == 0 }

func (r *Report) fail(rec shortcut.Record, op Op, err error) {
	r.Failures = append(r.Failures, ItemFailure{Record: rec, Op: op, Message: err.Error(), Err: err})
}
