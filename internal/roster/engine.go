/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"fmt"
	"time"
)

// DefaultScanFloor bounds the queue lookahead: once this many guards have
// been examined and a candidate exists, the scan stops.
const DefaultScanFloor = 5

const (
	nightStreakPenalty  = 100.0
	overloadPenaltyStep = 5.0
)

// Config carries everything needed to build an engine. Inputs are assumed
// shape-validated by the caller (the scheduling package does that for API
// traffic); the engine still fails fast on anything that would corrupt a run.
type Config struct {
	Start                time.Time
	End                  time.Time
	Guards               []string // ordered, unique
	Posts                []Post   // fixed iteration order
	Unavailability       map[string][]Window
	Lengths              ShiftLengths
	NightStart           string // HH:MM
	NightEnd             string // HH:MM
	MaxConsecutiveNights int
	ScanFloor            int // 0 means DefaultScanFloor
}

// Result is the outcome of a solve: the chronological assignment list plus
// every (post, slot) pairing that could not be covered.
type Result struct {
	Assignments []Assignment `json:"assignments"`
	Gaps        []Gap        `json:"gaps"`
}

// BalanceSummary reports workload distribution after a run.
type BalanceSummary struct {
	GuardStats map[string]GuardState `json:"guard_stats"`
	Overall    OverallStats          `json:"overall_stats"`
}

// OverallStats aggregates workload across all guards.
type OverallStats struct {
	TotalShifts       int     `json:"total_shifts"`
	TotalHours        float64 `json:"total_hours"`
	AvgShiftsPerGuard float64 `json:"avg_shifts_per_guard"`
	AvgHoursPerGuard  float64 `json:"avg_hours_per_guard"`
}

// Engine assigns guards to posts across the configured horizon. An instance
// is single-use and single-threaded: it holds mutable queues and guard state
// with no internal synchronization, so concurrent callers must construct
// independent engines.
type Engine struct {
	cfg        Config
	night      NightWindow
	slots      []Slot
	queues     map[string]*Queue
	tracker    *Tracker
	inputOrder []string
	scanFloor  int
	solved     bool
}

// New builds an engine from scratch, with every post's queue in the input
// guard order and zeroed guard state.
func New(cfg Config) (*Engine, error) {
	if !cfg.End.After(cfg.Start) {
		return nil, ErrHorizonOrder
	}
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	for _, post := range cfg.Posts {
		e.queues[post.ID] = NewQueue(cfg.Guards)
	}
	e.tracker = NewTracker(cfg.Guards)
	return e, nil
}

// newEngine validates shared configuration. The horizon only has to be
// non-regressing here: a fresh build demands End after Start (checked in
// New), while a continuation may carry an unchanged horizon and generate
// zero slots.
func newEngine(cfg Config) (*Engine, error) {
	if cfg.End.Before(cfg.Start) {
		return nil, ErrHorizonOrder
	}
	if len(cfg.Guards) == 0 {
		return nil, ErrNoGuards
	}
	if len(cfg.Posts) == 0 {
		return nil, ErrNoPosts
	}
	if cfg.MaxConsecutiveNights < 1 {
		return nil, ErrMaxNights
	}
	if cfg.Lengths.DayHours <= 0 || cfg.Lengths.NightHours <= 0 {
		return nil, fmt.Errorf("shift lengths must be positive, got day=%v night=%v", cfg.Lengths.DayHours, cfg.Lengths.NightHours)
	}

	seen := make(map[string]struct{}, len(cfg.Guards))
	for _, id := range cfg.Guards {
		if _, dup := seen[id]; dup {
			return nil, &DuplicateIDError{Kind: "guard", ID: id}
		}
		seen[id] = struct{}{}
	}
	seenPosts := make(map[string]struct{}, len(cfg.Posts))
	for _, post := range cfg.Posts {
		if _, dup := seenPosts[post.ID]; dup {
			return nil, &DuplicateIDError{Kind: "post", ID: post.ID}
		}
		seenPosts[post.ID] = struct{}{}
	}

	night, err := ParseNightWindow(cfg.NightStart, cfg.NightEnd)
	if err != nil {
		return nil, err
	}

	scanFloor := cfg.ScanFloor
	if scanFloor <= 0 {
		scanFloor = DefaultScanFloor
	}

	return &Engine{
		cfg:        cfg,
		night:      night,
		slots:      GenerateSlots(cfg.Start, cfg.End, cfg.Lengths, night),
		queues:     make(map[string]*Queue, len(cfg.Posts)),
		inputOrder: append([]string(nil), cfg.Guards...),
		scanFloor:  scanFloor,
	}, nil
}

// Slots returns the generated shift windows in chronological order.
func (e *Engine) Slots() []Slot {
	return append([]Slot(nil), e.slots...)
}

// QueueOrder returns the current rotation order for a post's queue.
func (e *Engine) QueueOrder(postID string) ([]string, bool) {
	q, ok := e.queues[postID]
	if !ok {
		return nil, false
	}
	return q.Order(), true
}

// Solve iterates slots chronologically and posts in their configured order,
// assigning the best available guard to each required (post, slot) pairing.
// An uncoverable pairing becomes a gap and the run continues; only a run
// with zero assignments over the whole horizon fails with ErrNoAssignments.
func (e *Engine) Solve() (*Result, error) {
	if e.solved {
		return nil, ErrSolved
	}
	e.solved = true

	result := &Result{}

	for _, slot := range e.slots {
		for _, post := range e.cfg.Posts {
			if !post.Requirement.RequiredAt(slot.Start) {
				continue
			}

			guardID, ok := e.queues[post.ID].Select(
				func(id string) bool { return e.availableFor(id, slot) },
				e.penaltyFunc(slot),
				e.scanFloor,
			)
			if !ok {
				result.Gaps = append(result.Gaps, Gap{
					PostID: post.ID,
					Start:  slot.Start,
					End:    slot.End,
					Night:  slot.Night,
				})
				continue
			}

			e.tracker.Record(guardID, slot)
			result.Assignments = append(result.Assignments, Assignment{
				GuardID: guardID,
				PostID:  post.ID,
				Start:   slot.Start,
				End:     slot.End,
				Night:   slot.Night,
			})
		}
	}

	if len(result.Assignments) == 0 {
		return nil, ErrNoAssignments
	}
	return result, nil
}

// availableFor reports whether the guard has no unavailability window
// overlapping the slot.
func (e *Engine) availableFor(guardID string, slot Slot) bool {
	for _, w := range e.cfg.Unavailability[guardID] {
		if w.Overlaps(slot.Start, slot.End) {
			return false
		}
	}
	return true
}

// penaltyFunc builds the fairness penalty for one selection pass. The group
// average is fixed for the duration of a single pass, so it is computed once.
func (e *Engine) penaltyFunc(slot Slot) func(id string) float64 {
	avg := e.tracker.AverageShifts()
	return func(id string) float64 {
		st := e.tracker.State(id)

		penalty := 0.0
		if slot.Night && st.ConsecutiveNights >= e.cfg.MaxConsecutiveNights {
			penalty += nightStreakPenalty
		}
		if float64(st.TotalShifts) > avg {
			penalty += (float64(st.TotalShifts) - avg) * overloadPenaltyStep
		}
		return penalty
	}
}

// Balance summarizes workload distribution across guards.
func (e *Engine) Balance() BalanceSummary {
	stats := e.tracker.Snapshot()

	var overall OverallStats
	for _, st := range stats {
		overall.TotalShifts += st.TotalShifts
		overall.TotalHours += st.TotalHours
	}
	if n := len(e.inputOrder); n > 0 {
		overall.AvgShiftsPerGuard = float64(overall.TotalShifts) / float64(n)
		overall.AvgHoursPerGuard = overall.TotalHours / float64(n)
	}

	return BalanceSummary{GuardStats: stats, Overall: overall}
}
