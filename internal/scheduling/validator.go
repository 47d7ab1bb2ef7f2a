/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/friendsincode/heimdall_roster/internal/roster"
)

// Timestamp layouts accepted on the wire, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Defaults applied to omitted request fields.
const (
	DefaultDayShiftHours        = 8.0
	DefaultNightShiftHours      = 8.0
	DefaultNightWindowStart     = "22:00"
	DefaultNightWindowEnd       = "06:00"
	DefaultMaxConsecutiveNights = 1
)

// RequirementSpec is the wire form of a post coverage requirement.
type RequirementSpec struct {
	Kind  string `json:"kind"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// PostSpec is the wire form of a coverage post.
type PostSpec struct {
	ID          string          `json:"id"`
	Requirement RequirementSpec `json:"requirement"`
}

// WindowSpec is the wire form of an unavailability window.
type WindowSpec struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BuildRequest is the body of a schedule build call.
type BuildRequest struct {
	Start                string                  `json:"start_time"`
	End                  string                  `json:"end_time"`
	Guards               []string                `json:"guards"`
	Posts                []PostSpec              `json:"posts"`
	Unavailability       map[string][]WindowSpec `json:"unavailability,omitempty"`
	DayShiftHours        float64                 `json:"day_shift_hours,omitempty"`
	NightShiftHours      float64                 `json:"night_shift_hours,omitempty"`
	NightWindowStart     string                  `json:"night_window_start,omitempty"`
	NightWindowEnd       string                  `json:"night_window_end,omitempty"`
	MaxConsecutiveNights int                     `json:"max_consecutive_nights,omitempty"`
	ScanFloor            int                     `json:"queue_scan_floor,omitempty"`
}

// ContinueRequest is the body of a schedule continuation call.
type ContinueRequest struct {
	SnapshotID     string                  `json:"snapshot_id"`
	End            string                  `json:"end_time"`
	Unavailability map[string][]WindowSpec `json:"unavailability,omitempty"`
	ResetQueues    bool                    `json:"reset_queues,omitempty"`
	QueueOrders    map[string][]string     `json:"queue_orders,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestError aggregates every field rejection for one request.
type RequestError struct {
	Fields []FieldError `json:"errors"`
}

func (e *RequestError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}

func (e *RequestError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *RequestError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ParseTimestamp parses a wire timestamp, accepting RFC 3339 and the two
// common second-less and zone-less forms clients send.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not RFC 3339 or YYYY-MM-DDTHH:MM", value)
}

// Validator shape-checks API requests and converts them into engine
// configuration. The engine revalidates its own invariants; the validator's
// job is rejecting malformed wire input with field-addressed messages.
type Validator struct {
	maxHorizonHours float64
}

// NewValidator builds a validator. maxHorizonHours of 0 disables the cap.
func NewValidator(maxHorizonHours float64) *Validator {
	return &Validator{maxHorizonHours: maxHorizonHours}
}

// ValidateBuild checks a build request and converts it to an engine config
// with defaults applied.
func (v *Validator) ValidateBuild(req BuildRequest) (roster.Config, error) {
	var reqErr RequestError

	start, err := ParseTimestamp(req.Start)
	if err != nil {
		reqErr.add("start_time", "%v", err)
	}
	end, err := ParseTimestamp(req.End)
	if err != nil {
		reqErr.add("end_time", "%v", err)
	}
	if reqErr.orNil() == nil {
		if !end.After(start) {
			reqErr.add("end_time", "must be after start_time")
		} else if v.maxHorizonHours > 0 && end.Sub(start).Hours() > v.maxHorizonHours {
			reqErr.add("end_time", "horizon exceeds the %.0f hour limit", v.maxHorizonHours)
		}
	}

	if len(req.Guards) == 0 {
		reqErr.add("guards", "at least one guard is required")
	}
	seenGuards := make(map[string]bool, len(req.Guards))
	for i, id := range req.Guards {
		if strings.TrimSpace(id) == "" {
			reqErr.add(fmt.Sprintf("guards[%d]", i), "guard id must not be empty")
			continue
		}
		if seenGuards[id] {
			reqErr.add(fmt.Sprintf("guards[%d]", i), "duplicate guard id %q", id)
		}
		seenGuards[id] = true
	}

	if len(req.Posts) == 0 {
		reqErr.add("posts", "at least one post is required")
	}
	posts := make([]roster.Post, 0, len(req.Posts))
	seenPosts := make(map[string]bool, len(req.Posts))
	for i, spec := range req.Posts {
		field := fmt.Sprintf("posts[%d]", i)
		if strings.TrimSpace(spec.ID) == "" {
			reqErr.add(field+".id", "post id must not be empty")
			continue
		}
		if seenPosts[spec.ID] {
			reqErr.add(field+".id", "duplicate post id %q", spec.ID)
			continue
		}
		seenPosts[spec.ID] = true

		requirement, ok := parseRequirement(spec.Requirement, field, &reqErr)
		if !ok {
			continue
		}
		posts = append(posts, roster.Post{ID: spec.ID, Requirement: requirement})
	}

	unavailability := make(map[string][]roster.Window, len(req.Unavailability))
	for guardID, windows := range req.Unavailability {
		if !seenGuards[guardID] {
			reqErr.add("unavailability."+guardID, "unknown guard id")
			continue
		}
		for i, w := range windows {
			field := fmt.Sprintf("unavailability.%s[%d]", guardID, i)
			ws, err := ParseTimestamp(w.Start)
			if err != nil {
				reqErr.add(field+".start", "%v", err)
				continue
			}
			we, err := ParseTimestamp(w.End)
			if err != nil {
				reqErr.add(field+".end", "%v", err)
				continue
			}
			if !we.After(ws) {
				reqErr.add(field, "window end must be after start")
				continue
			}
			unavailability[guardID] = append(unavailability[guardID], roster.Window{Start: ws, End: we})
		}
	}

	dayHours := req.DayShiftHours
	if dayHours == 0 {
		dayHours = DefaultDayShiftHours
	}
	nightHours := req.NightShiftHours
	if nightHours == 0 {
		nightHours = DefaultNightShiftHours
	}
	if dayHours < 0 {
		reqErr.add("day_shift_hours", "must be positive")
	}
	if nightHours < 0 {
		reqErr.add("night_shift_hours", "must be positive")
	}

	nightStart := req.NightWindowStart
	if nightStart == "" {
		nightStart = DefaultNightWindowStart
	}
	nightEnd := req.NightWindowEnd
	if nightEnd == "" {
		nightEnd = DefaultNightWindowEnd
	}
	if _, err := roster.ParseNightWindow(nightStart, nightEnd); err != nil {
		reqErr.add("night_window", "%v", err)
	}

	maxNights := req.MaxConsecutiveNights
	if maxNights == 0 {
		maxNights = DefaultMaxConsecutiveNights
	}
	if maxNights < 1 {
		reqErr.add("max_consecutive_nights", "must be at least 1")
	}
	if req.ScanFloor < 0 {
		reqErr.add("queue_scan_floor", "must not be negative")
	}

	if err := reqErr.orNil(); err != nil {
		return roster.Config{}, err
	}

	return roster.Config{
		Start:                start,
		End:                  end,
		Guards:               req.Guards,
		Posts:                posts,
		Unavailability:       unavailability,
		Lengths:              roster.ShiftLengths{DayHours: dayHours, NightHours: nightHours},
		NightStart:           nightStart,
		NightEnd:             nightEnd,
		MaxConsecutiveNights: maxNights,
		ScanFloor:            req.ScanFloor,
	}, nil
}

// ValidateContinue checks a continuation request and converts it to engine
// continuation options. Queue order permutations are validated later against
// the snapshot's guard set.
func (v *Validator) ValidateContinue(req ContinueRequest) (roster.ContinueOptions, error) {
	var reqErr RequestError

	if strings.TrimSpace(req.SnapshotID) == "" {
		reqErr.add("snapshot_id", "snapshot id is required")
	}

	end, err := ParseTimestamp(req.End)
	if err != nil {
		reqErr.add("end_time", "%v", err)
	}

	unavailability := make(map[string][]roster.Window, len(req.Unavailability))
	for guardID, windows := range req.Unavailability {
		for i, w := range windows {
			field := fmt.Sprintf("unavailability.%s[%d]", guardID, i)
			ws, err := ParseTimestamp(w.Start)
			if err != nil {
				reqErr.add(field+".start", "%v", err)
				continue
			}
			we, err := ParseTimestamp(w.End)
			if err != nil {
				reqErr.add(field+".end", "%v", err)
				continue
			}
			if !we.After(ws) {
				reqErr.add(field, "window end must be after start")
				continue
			}
			unavailability[guardID] = append(unavailability[guardID], roster.Window{Start: ws, End: we})
		}
	}

	if req.ResetQueues && len(req.QueueOrders) > 0 {
		reqErr.add("queue_orders", "cannot be combined with reset_queues")
	}

	if err := reqErr.orNil(); err != nil {
		return roster.ContinueOptions{}, err
	}

	return roster.ContinueOptions{
		HorizonEnd:     end,
		Unavailability: unavailability,
		ResetQueues:    req.ResetQueues,
		QueueOrders:    req.QueueOrders,
	}, nil
}

// CheckContinuationHorizon applies the horizon cap to a continuation once
// the snapshot's recorded horizon end is known. The end may equal the start;
// that continuation adds no slots but round-trips the saved state.
func (v *Validator) CheckContinuationHorizon(start, end time.Time) error {
	var reqErr RequestError
	if end.Before(start) {
		reqErr.add("end_time", "must not precede the snapshot horizon end")
	} else if v.maxHorizonHours > 0 && end.Sub(start).Hours() > v.maxHorizonHours {
		reqErr.add("end_time", "horizon exceeds the %.0f hour limit", v.maxHorizonHours)
	}
	return reqErr.orNil()
}

func parseRequirement(spec RequirementSpec, field string, reqErr *RequestError) (roster.Requirement, bool) {
	switch spec.Kind {
	case string(roster.RequirementAlways), "":
		return roster.Always(), true
	case string(roster.RequirementBoundedHours):
		if _, _, err := roster.ParseClock(spec.Start); err != nil {
			reqErr.add(field+".requirement.start", "%v", err)
			return roster.Requirement{}, false
		}
		if _, _, err := roster.ParseClock(spec.End); err != nil {
			reqErr.add(field+".requirement.end", "%v", err)
			return roster.Requirement{}, false
		}
		return roster.BoundedHours(spec.Start, spec.End), true
	default:
		reqErr.add(field+".requirement.kind", "unknown requirement kind %q", spec.Kind)
		return roster.Requirement{}, false
	}
}
