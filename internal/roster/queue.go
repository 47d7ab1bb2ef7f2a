/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import "math"

// Queue is the per-post rotation order over guards. It always holds exactly
// one entry per guard: selection only ever reorders, never adds or removes.
type Queue struct {
	ids []string
}

// NewQueue creates a queue in the given guard order.
func NewQueue(order []string) *Queue {
	return &Queue{ids: append([]string(nil), order...)}
}

// Order returns a copy of the current queue order.
func (q *Queue) Order() []string {
	return append([]string(nil), q.ids...)
}

// Len returns the number of guards in the queue.
func (q *Queue) Len() int {
	return len(q.ids)
}

// Select scans from the front of the queue for the lowest-penalty available
// guard. The scan is a bounded lookahead: it stops as soon as a zero-penalty
// guard appears, or once at least min(queue length, scanFloor) guards have
// been examined and some candidate exists. Both cutoff conditions are a
// deliberate cost/optimality trade; unavailable guards count toward the scan
// but never become candidates. First-seen wins penalty ties, so selection is
// deterministic and order-sensitive.
//
// On success the selected guard rotates to the tail and the cyclic order of
// the remaining guards is preserved. On failure the queue is left untouched.
func (q *Queue) Select(available func(id string) bool, penalty func(id string) float64, scanFloor int) (string, bool) {
	if len(q.ids) == 0 {
		return "", false
	}

	limit := scanFloor
	if len(q.ids) < limit {
		limit = len(q.ids)
	}

	bestIdx := -1
	bestPenalty := math.Inf(1)
	checked := 0

	for i, id := range q.ids {
		checked++

		if available(id) {
			p := penalty(id)
			if p < bestPenalty {
				bestIdx = i
				bestPenalty = p
			}
			if p == 0 {
				break
			}
		}

		if checked >= limit && bestIdx >= 0 {
			break
		}
	}

	if bestIdx < 0 {
		return "", false
	}

	chosen := q.ids[bestIdx]
	rotated := make([]string, 0, len(q.ids))
	rotated = append(rotated, q.ids[bestIdx+1:]...)
	rotated = append(rotated, q.ids[:bestIdx]...)
	rotated = append(rotated, chosen)
	q.ids = rotated

	return chosen, true
}
