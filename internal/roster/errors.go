/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHorizonOrder indicates the schedule end is not after its start.
	ErrHorizonOrder = errors.New("schedule end must be after schedule start")

	// ErrNoGuards indicates an empty guard list.
	ErrNoGuards = errors.New("at least one guard is required")

	// ErrNoPosts indicates an empty post list.
	ErrNoPosts = errors.New("at least one post is required")

	// ErrMaxNights indicates a consecutive-night limit below one.
	ErrMaxNights = errors.New("max consecutive nights must be at least 1")

	// ErrNoAssignments indicates the run produced zero assignments across
	// the whole horizon. Partial coverage is not an error; this is.
	ErrNoAssignments = errors.New("no feasible schedule: zero assignments produced")

	// ErrSolved indicates a second Solve call on a consumed engine. Solving
	// mutates queues and guard state, so each engine runs exactly once.
	ErrSolved = errors.New("engine already solved")
)

// DuplicateIDError reports a non-unique guard or post identifier.
type DuplicateIDError struct {
	Kind string // "guard" or "post"
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID)
}

// QueueOrderError reports a queue order that is not an exact permutation of
// the guard set, enumerating the offending identifiers.
type QueueOrderError struct {
	PostID  string
	Missing []string
	Extra   []string
}

func (e *QueueOrderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid queue order for post %q", e.PostID)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing guards %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		if len(e.Missing) > 0 {
			fmt.Fprintf(&b, "; unknown guards %s", strings.Join(e.Extra, ", "))
		} else {
			fmt.Fprintf(&b, ": unknown guards %s", strings.Join(e.Extra, ", "))
		}
	}
	return b.String()
}
