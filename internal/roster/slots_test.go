/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"testing"
	"time"
)

func mustNightWindow(t *testing.T, start, end string) NightWindow {
	t.Helper()
	w, err := ParseNightWindow(start, end)
	if err != nil {
		t.Fatalf("parse night window: %v", err)
	}
	return w
}

func TestGenerateSlotsDayNightAlternation(t *testing.T) {
	night := mustNightWindow(t, "22:00", "06:00")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	slots := GenerateSlots(start, end, ShiftLengths{DayHours: 8, NightHours: 8}, night)

	if len(slots) != 3 {
		t.Fatalf("slots = %d, want 3", len(slots))
	}
	wantNight := []bool{true, false, false}
	for i, slot := range slots {
		if slot.Night != wantNight[i] {
			t.Errorf("slot[%d].Night = %v, want %v", i, slot.Night, wantNight[i])
		}
		if slot.Hours != 8 {
			t.Errorf("slot[%d].Hours = %v, want 8", i, slot.Hours)
		}
	}
}

func TestGenerateSlotsOrderedAndContiguous(t *testing.T) {
	night := mustNightWindow(t, "22:00", "06:00")
	start := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	slots := GenerateSlots(start, end, ShiftLengths{DayHours: 8, NightHours: 12}, night)

	if len(slots) == 0 {
		t.Fatal("no slots generated")
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.Equal(slots[i-1].End) {
			t.Errorf("slot[%d] starts at %v, previous ends at %v", i, slots[i].Start, slots[i-1].End)
		}
		if !slots[i].Start.After(slots[i-1].Start) {
			t.Errorf("slot[%d] does not start after slot[%d]", i, i-1)
		}
	}
	last := slots[len(slots)-1]
	if last.Start.After(end) || last.Start.Equal(end) {
		t.Errorf("last slot starts at %v, beyond horizon end %v", last.Start, end)
	}
}

func TestGenerateSlotsFinalSlotMayOverrun(t *testing.T) {
	night := mustNightWindow(t, "22:00", "06:00")
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	// Horizon ends mid-shift; the final slot keeps its full length.
	end := start.Add(10 * time.Hour)

	slots := GenerateSlots(start, end, ShiftLengths{DayHours: 8, NightHours: 8}, night)

	if len(slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(slots))
	}
	if !slots[1].End.After(end) {
		t.Errorf("final slot end %v does not extend past horizon end %v", slots[1].End, end)
	}
}

func TestRequirementBoundedHours(t *testing.T) {
	tests := []struct {
		name     string
		req      Requirement
		at       time.Time
		required bool
	}{
		{"always on", Always(), at(3, 0), true},
		{"inside window", BoundedHours("08:00", "17:00"), at(12, 0), true},
		{"exact start", BoundedHours("08:00", "17:00"), at(8, 0), true},
		{"exact end excluded", BoundedHours("08:00", "17:00"), at(17, 0), false},
		{"outside window", BoundedHours("08:00", "17:00"), at(18, 0), false},
		{"overnight inside late", BoundedHours("22:00", "06:00"), at(23, 30), true},
		{"overnight inside early", BoundedHours("22:00", "06:00"), at(2, 0), true},
		{"overnight outside", BoundedHours("22:00", "06:00"), at(12, 0), false},
		{"missing bounds fail closed", Requirement{Kind: RequirementBoundedHours}, at(12, 0), false},
		{"malformed bounds fail closed", BoundedHours("8am", "5pm"), at(12, 0), false},
		{"unknown kind fails closed", Requirement{Kind: "weekly"}, at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.RequiredAt(tt.at); got != tt.required {
				t.Errorf("RequiredAt = %v, want %v", got, tt.required)
			}
		})
	}
}
