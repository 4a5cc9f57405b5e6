// Package reconcile computes what has to change to make the materialized
// shortcut population match the Steam-managed one.
package reconcile

import "github.com/grovetools/steam-shortcut-sync/internal/shortcut"

// Action is what a pass does with a single record.
type Action int

const (
	// Keep leaves a record that exists on both sides untouched.
	Keep Action = iota
	// Add materializes a record that only exists in the source.
	Add
	// Remove deletes a record that only exists in the target.
	Remove
)

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a {
	case Keep:
		return "keep"
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// Plan maps every record of source ∪ target to exactly one action.
type Plan map[shortcut.Record]Action

// Compute builds the plan that turns target into source. It does no I/O.
func Compute(source, target shortcut.Set) Plan {
	plan := make(Plan, len(source)+len(target))
	for r := range source {
		if target.Has(r) {
			plan[r] = Keep
		} else {
			plan[r] = Add
		}
	}
	for r := range target {
		if !source.Has(r) {
			plan[r] = Remove
		}
	}
	return plan
}

// Adds returns the records to add, sorted.
func (p Plan) Adds() []shortcut.Record { return p.with(Add) }

// Removes returns the records to remove, sorted.
func (p Plan) Removes() []shortcut.Record { return p.with(Remove) }

// Keeps returns the records left untouched, sorted.
func (p Plan) Keeps() []shortcut.Record { return p.with(Keep) }

func (p Plan) with(action Action) []shortcut.Record {
	var out []shortcut.Record
	for r, a := range p {
		if a == action {
			out = append(out, r)
		}
	}
	shortcut.SortRecords(out)
	return out
}

// Counts summarizes the plan.
type Counts struct {
	Add    int `json:"add"`
	Remove int `json:"remove"`
	Keep   int `json:"keep"`
}

// Counts returns how many records fall under each action.
func (p Plan) Counts() Counts {
	var c Counts
	for _, a := range p {
		switch a {
		case Add:
			c.Add++
		case Remove:
			c.Remove++
		case Keep:
			c.Keep++
		}
	}
	return c
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	c := p.Counts()
	return c.Add == 0 && c.Remove == 0
}

// ResolveCollisions settles source records that share a key, such as the
// entry filename two names sanitize to. Within each group the first record in
// name, id order wins. A losing add is dropped and a losing keep becomes a
// remove. It returns the resolved plan and the losers, sorted.
func (p Plan) ResolveCollisions(key func(shortcut.Record) string) (Plan, []shortcut.Record) {
	groups := make(map[string][]shortcut.Record)
	for r, a := range p {
		if a == Remove {
			continue
		}
		k := key(r)
		groups[k] = append(groups[k], r)
	}

	var losers []shortcut.Record
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		shortcut.SortRecords(group)
		losers = append(losers, group[1:]...)
	}
	if len(losers) == 0 {
		return p, nil
	}

	resolved := make(Plan, len(p))
	for r, a := range p {
		resolved[r] = a
	}
	for _, r := range losers {
		if resolved[r] == Keep {
			resolved[r] = Remove
		} else {
			delete(resolved, r)
		}
	}
	shortcut.SortRecords(losers)
	return resolved, losers
}
