/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"fmt"
	"time"
)

// Snapshot is the externally durable form of an engine's mutable state:
// per-post queue orders, per-guard stats, and enough configuration metadata
// to reconstruct a continuing engine. Snapshots are produced by Export and
// consumed only at construction time by Continue, never mutated in place.
type Snapshot struct {
	Queues   map[string][]string   `json:"guard_queues"`
	Stats    map[string]GuardState `json:"guard_states"`
	Metadata SnapshotMetadata      `json:"metadata"`
}

// SnapshotMetadata records the configuration a continuation needs.
type SnapshotMetadata struct {
	HorizonEnd           time.Time    `json:"horizon_end"`
	Guards               []string     `json:"guards"`
	GuardInputOrder      []string     `json:"guard_input_order"`
	Posts                []Post       `json:"posts"`
	Lengths              ShiftLengths `json:"shift_lengths"`
	NightStart           string       `json:"night_window_start"`
	NightEnd             string       `json:"night_window_end"`
	MaxConsecutiveNights int          `json:"max_consecutive_nights"`
	ScanFloor            int          `json:"scan_floor"`
	ExportedAt           time.Time    `json:"exported_at"`
}

// ContinueOptions shape a continuation run built from a snapshot.
type ContinueOptions struct {
	// HorizonEnd bounds the new horizon; slot generation starts exactly at
	// the snapshot's recorded horizon end.
	HorizonEnd time.Time

	// Unavailability holds windows for the new period. Prior windows are
	// not carried over; they lie behind the continuation boundary.
	Unavailability map[string][]Window

	// ResetQueues reinitializes every post queue to the original input
	// guard order instead of restoring the rotated orders. Guard stats are
	// restored either way; fairness history survives a queue reset.
	ResetQueues bool

	// QueueOrders overrides individual post queues. Each order must be an
	// exact permutation of the guard set. Ignored when ResetQueues is set.
	QueueOrders map[string][]string
}

// Export captures the engine's full mutable state for storage by the caller.
func (e *Engine) Export() Snapshot {
	queues := make(map[string][]string, len(e.queues))
	for postID, q := range e.queues {
		queues[postID] = q.Order()
	}

	return Snapshot{
		Queues: queues,
		Stats:  e.tracker.Snapshot(),
		Metadata: SnapshotMetadata{
			HorizonEnd:           e.cfg.End,
			Guards:               append([]string(nil), e.cfg.Guards...),
			GuardInputOrder:      append([]string(nil), e.inputOrder...),
			Posts:                append([]Post(nil), e.cfg.Posts...),
			Lengths:              e.cfg.Lengths,
			NightStart:           e.cfg.NightStart,
			NightEnd:             e.cfg.NightEnd,
			MaxConsecutiveNights: e.cfg.MaxConsecutiveNights,
			ScanFloor:            e.cfg.ScanFloor,
			ExportedAt:           time.Now().UTC(),
		},
	}
}

// Continue builds a new engine that picks up where the snapshot left off.
// The new horizon starts at the snapshot's recorded end, queue orders and
// guard stats carry over (subject to options), so fairness history is
// preserved across sessions. HorizonEnd equal to the recorded end is valid
// and yields a zero-slot engine whose state matches the snapshot exactly,
// so export and import round-trip without drift.
func Continue(snap Snapshot, opts ContinueOptions) (*Engine, error) {
	meta := snap.Metadata

	e, err := newEngine(Config{
		Start:                meta.HorizonEnd,
		End:                  opts.HorizonEnd,
		Guards:               meta.Guards,
		Posts:                meta.Posts,
		Unavailability:       opts.Unavailability,
		Lengths:              meta.Lengths,
		NightStart:           meta.NightStart,
		NightEnd:             meta.NightEnd,
		MaxConsecutiveNights: meta.MaxConsecutiveNights,
		ScanFloor:            meta.ScanFloor,
	})
	if err != nil {
		return nil, err
	}
	e.inputOrder = append([]string(nil), meta.GuardInputOrder...)

	for _, post := range meta.Posts {
		order, err := continuationOrder(post.ID, snap, opts, e.inputOrder)
		if err != nil {
			return nil, err
		}
		e.queues[post.ID] = NewQueue(order)
	}

	e.tracker = restoreTracker(meta.Guards, snap.Stats)
	return e, nil
}

// continuationOrder resolves one post's starting queue order, validating any
// restored or custom order as an exact permutation of the guard set.
func continuationOrder(postID string, snap Snapshot, opts ContinueOptions, inputOrder []string) ([]string, error) {
	if opts.ResetQueues {
		return inputOrder, nil
	}

	if order, ok := opts.QueueOrders[postID]; ok {
		if err := validatePermutation(postID, order, snap.Metadata.Guards); err != nil {
			return nil, err
		}
		return order, nil
	}

	order, ok := snap.Queues[postID]
	if !ok {
		return nil, fmt.Errorf("snapshot has no queue for post %q", postID)
	}
	if err := validatePermutation(postID, order, snap.Metadata.Guards); err != nil {
		return nil, err
	}
	return order, nil
}

func validatePermutation(postID string, order, guards []string) error {
	want := make(map[string]int, len(guards))
	for _, id := range guards {
		want[id]++
	}

	var extra []string
	for _, id := range order {
		if want[id] > 0 {
			want[id]--
		} else {
			extra = append(extra, id)
		}
	}
	var missing []string
	for _, id := range guards {
		for ; want[id] > 0; want[id]-- {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		return &QueueOrderError{PostID: postID, Missing: missing, Extra: extra}
	}
	return nil
}
