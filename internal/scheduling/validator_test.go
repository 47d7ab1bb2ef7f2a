/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/friendsincode/heimdall_roster/internal/roster"
)

func validBuildRequest() BuildRequest {
	return BuildRequest{
		Start:  "2024-01-01T00:00:00Z",
		End:    "2024-01-02T00:00:00Z",
		Guards: []string{"alice", "bruno", "carla"},
		Posts: []PostSpec{
			{ID: "gate", Requirement: RequirementSpec{Kind: "always"}},
			{ID: "yard", Requirement: RequirementSpec{Kind: "bounded_hours", Start: "08:00", End: "16:00"}},
		},
	}
}

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	return reqErr.Fields
}

func hasField(fields []FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

func TestValidateBuildAppliesDefaults(t *testing.T) {
	cfg, err := NewValidator(0).ValidateBuild(validBuildRequest())
	if err != nil {
		t.Fatalf("ValidateBuild: %v", err)
	}

	if cfg.Lengths.DayHours != DefaultDayShiftHours || cfg.Lengths.NightHours != DefaultNightShiftHours {
		t.Errorf("shift lengths = %+v, want defaults", cfg.Lengths)
	}
	if cfg.NightStart != DefaultNightWindowStart || cfg.NightEnd != DefaultNightWindowEnd {
		t.Errorf("night window = %s-%s, want defaults", cfg.NightStart, cfg.NightEnd)
	}
	if cfg.MaxConsecutiveNights != DefaultMaxConsecutiveNights {
		t.Errorf("max consecutive nights = %d, want %d", cfg.MaxConsecutiveNights, DefaultMaxConsecutiveNights)
	}
	if len(cfg.Posts) != 2 || cfg.Posts[1].Requirement.Kind != roster.RequirementBoundedHours {
		t.Errorf("posts = %+v", cfg.Posts)
	}
}

func TestValidateBuildAcceptsSecondlessTimestamps(t *testing.T) {
	req := validBuildRequest()
	req.Start = "2024-01-01T00:00"
	req.End = "2024-01-02T00:00"

	cfg, err := NewValidator(0).ValidateBuild(req)
	if err != nil {
		t.Fatalf("ValidateBuild: %v", err)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !cfg.Start.Equal(want) {
		t.Errorf("start = %v, want %v", cfg.Start, want)
	}
}

func TestValidateBuildRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*BuildRequest)
		wantField string
	}{
		{"bad start", func(r *BuildRequest) { r.Start = "yesterday" }, "start_time"},
		{"reversed horizon", func(r *BuildRequest) { r.End = "2023-12-31T00:00:00Z" }, "end_time"},
		{"no guards", func(r *BuildRequest) { r.Guards = nil }, "guards"},
		{"duplicate guard", func(r *BuildRequest) { r.Guards = append(r.Guards, "alice") }, "guards[3]"},
		{"empty guard id", func(r *BuildRequest) { r.Guards[1] = " " }, "guards[1]"},
		{"no posts", func(r *BuildRequest) { r.Posts = nil }, "posts"},
		{"duplicate post", func(r *BuildRequest) {
			r.Posts = append(r.Posts, PostSpec{ID: "gate", Requirement: RequirementSpec{Kind: "always"}})
		}, "posts[2].id"},
		{"unknown requirement kind", func(r *BuildRequest) {
			r.Posts[0].Requirement.Kind = "weekends"
		}, "posts[0].requirement.kind"},
		{"bounded requirement bad clock", func(r *BuildRequest) {
			r.Posts[1].Requirement.Start = "8am"
		}, "posts[1].requirement.start"},
		{"unknown unavailability guard", func(r *BuildRequest) {
			r.Unavailability = map[string][]WindowSpec{"dora": {{Start: "2024-01-01T00:00:00Z", End: "2024-01-01T08:00:00Z"}}}
		}, "unavailability.dora"},
		{"inverted unavailability window", func(r *BuildRequest) {
			r.Unavailability = map[string][]WindowSpec{"alice": {{Start: "2024-01-01T08:00:00Z", End: "2024-01-01T00:00:00Z"}}}
		}, "unavailability.alice[0]"},
		{"bad night window", func(r *BuildRequest) { r.NightWindowStart = "25:00" }, "night_window"},
		{"negative scan floor", func(r *BuildRequest) { r.ScanFloor = -1 }, "queue_scan_floor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBuildRequest()
			tt.mutate(&req)
			_, err := NewValidator(0).ValidateBuild(req)
			if err == nil {
				t.Fatal("ValidateBuild accepted a bad request")
			}
			if fields := fieldErrors(t, err); !hasField(fields, tt.wantField) {
				t.Errorf("errors %v missing field %s", fields, tt.wantField)
			}
		})
	}
}

func TestValidateBuildHorizonCap(t *testing.T) {
	req := validBuildRequest()
	req.End = "2024-04-01T00:00:00Z"

	_, err := NewValidator(720).ValidateBuild(req)
	if err == nil {
		t.Fatal("ValidateBuild accepted a horizon beyond the cap")
	}
	if fields := fieldErrors(t, err); !hasField(fields, "end_time") {
		t.Errorf("errors %v missing end_time", fields)
	}
}

func TestValidateBuildCollectsMultipleErrors(t *testing.T) {
	req := validBuildRequest()
	req.Guards = nil
	req.Posts = nil

	_, err := NewValidator(0).ValidateBuild(req)
	fields := fieldErrors(t, err)
	if len(fields) < 2 {
		t.Errorf("got %d field errors, want at least 2: %v", len(fields), fields)
	}
	if !strings.Contains(err.Error(), "guards") || !strings.Contains(err.Error(), "posts") {
		t.Errorf("error message %q should name both fields", err.Error())
	}
}

func TestValidateContinue(t *testing.T) {
	opts, err := NewValidator(0).ValidateContinue(ContinueRequest{
		SnapshotID: "0b06b9ce-6856-4bff-a160-cd8464b15a7e",
		End:        "2024-01-03T00:00:00Z",
		Unavailability: map[string][]WindowSpec{
			"alice": {{Start: "2024-01-02T00:00:00Z", End: "2024-01-02T08:00:00Z"}},
		},
	})
	if err != nil {
		t.Fatalf("ValidateContinue: %v", err)
	}
	if len(opts.Unavailability["alice"]) != 1 {
		t.Errorf("unavailability = %+v", opts.Unavailability)
	}

	t.Run("missing snapshot id", func(t *testing.T) {
		_, err := NewValidator(0).ValidateContinue(ContinueRequest{End: "2024-01-03T00:00:00Z"})
		if fields := fieldErrors(t, err); !hasField(fields, "snapshot_id") {
			t.Errorf("errors %v missing snapshot_id", fields)
		}
	})

	t.Run("reset conflicts with custom orders", func(t *testing.T) {
		_, err := NewValidator(0).ValidateContinue(ContinueRequest{
			SnapshotID:  "snap",
			End:         "2024-01-03T00:00:00Z",
			ResetQueues: true,
			QueueOrders: map[string][]string{"gate": {"alice"}},
		})
		if fields := fieldErrors(t, err); !hasField(fields, "queue_orders") {
			t.Errorf("errors %v missing queue_orders", fields)
		}
	})
}

func TestCheckContinuationHorizon(t *testing.T) {
	v := NewValidator(720)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if err := v.CheckContinuationHorizon(start, start.Add(24*time.Hour)); err != nil {
		t.Fatalf("24h continuation: %v", err)
	}
	if err := v.CheckContinuationHorizon(start, start); err != nil {
		t.Fatalf("zero-advance continuation: %v", err)
	}

	err := v.CheckContinuationHorizon(start, start.Add(721*time.Hour))
	if fields := fieldErrors(t, err); !hasField(fields, "end_time") {
		t.Errorf("errors %v missing end_time for over-cap horizon", fields)
	}

	err = v.CheckContinuationHorizon(start, start.Add(-time.Hour))
	if fields := fieldErrors(t, err); !hasField(fields, "end_time") {
		t.Errorf("errors %v missing end_time for regressing horizon", fields)
	}

	if err := NewValidator(0).CheckContinuationHorizon(start, start.Add(100000*time.Hour)); err != nil {
		t.Errorf("cap of 0 should disable the limit, got %v", err)
	}
}

func TestValidateHalfHour(t *testing.T) {
	tests := []struct {
		value      string
		valid      bool
		suggestion string
	}{
		{"09:00", true, ""},
		{"14:30", true, ""},
		{"09:10", false, "09:00"},
		{"09:20", false, "09:30"},
		{"09:40", false, "09:30"},
		{"09:50", false, "10:00"},
		{"23:50", false, "00:00"},
		{"09:15", false, "09:30"},
		{"09:45", false, "10:00"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := ValidateHalfHour(tt.value)
			if got.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.valid)
			}
			if got.Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %q, want %q", got.Suggestion, tt.suggestion)
			}
		})
	}

	t.Run("malformed", func(t *testing.T) {
		got := ValidateHalfHour("quarter past nine")
		if got.Valid || got.Message == "" {
			t.Errorf("result = %+v, want invalid with message", got)
		}
	})
}
