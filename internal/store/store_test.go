/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/friendsincode/heimdall_roster/internal/db"
	"github.com/friendsincode/heimdall_roster/internal/roster"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(gdb, zerolog.Nop())
}

func solvedBuild(t *testing.T) BuildRecord {
	t.Helper()
	cfg := roster.Config{
		Start:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:                  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Guards:               []string{"alice", "bruno", "carla"},
		Posts:                []roster.Post{{ID: "gate", Requirement: roster.Always()}},
		Lengths:              roster.ShiftLengths{DayHours: 8, NightHours: 8},
		NightStart:           "22:00",
		NightEnd:             "06:00",
		MaxConsecutiveNights: 2,
	}
	eng, err := roster.New(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := eng.Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return BuildRecord{
		Config:   cfg,
		Result:   result,
		Balance:  eng.Balance(),
		Snapshot: eng.Export(),
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run, snap, err := s.SaveRun(ctx, solvedBuild(t))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == "" || snap.ID == "" {
		t.Fatal("persisted records missing ids")
	}
	if run.Status != "complete" {
		t.Errorf("run status = %q, want complete", run.Status)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Assignments) != 3 {
		t.Fatalf("got %d assignments, want 3", len(got.Assignments))
	}
	for i, a := range got.Assignments {
		if a.Position != i {
			t.Errorf("assignment %d has position %d; output order lost", i, a.Position)
		}
	}
	if got.Assignments[0].GuardID != "alice" || !got.Assignments[0].Night {
		t.Errorf("first assignment = %+v, want alice on the night slot", got.Assignments[0])
	}
}

func TestSnapshotRoundTripsThroughStore(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := solvedBuild(t)
	run, snap, err := s.SaveRun(ctx, rec)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetSnapshot(ctx, snap.ID)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if got.RunID != run.ID {
		t.Errorf("snapshot run id = %s, want %s", got.RunID, run.ID)
	}
	if !got.HorizonEnd.Equal(rec.Config.End) {
		t.Errorf("snapshot horizon end = %v, want %v", got.HorizonEnd, rec.Config.End)
	}

	// The restored document must still drive a continuation.
	next, err := roster.Continue(got.Document, roster.ContinueOptions{
		HorizonEnd: rec.Config.End.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Continue from stored snapshot: %v", err)
	}
	if _, err := next.Solve(); err != nil {
		t.Fatalf("solve continuation: %v", err)
	}
}

func TestSaveRunMarksPartialOnGaps(t *testing.T) {
	s := testStore(t)
	rec := solvedBuild(t)
	rec.Result.Gaps = append(rec.Result.Gaps, roster.Gap{
		PostID: "gate",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		Night:  true,
	})

	run, _, err := s.SaveRun(context.Background(), rec)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.Status != "partial" {
		t.Errorf("run status = %q, want partial", run.Status)
	}

	got, err := s.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Gaps) != 1 {
		t.Errorf("got %d gaps, want 1", len(got.Gaps))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, _, err := s.SaveRun(ctx, solvedBuild(t))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	second, _, err := s.SaveRun(ctx, solvedBuild(t))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	ids := map[string]bool{runs[0].ID: true, runs[1].ID: true}
	if !ids[first.ID] || !ids[second.ID] {
		t.Errorf("listed runs %v missing saved ids", ids)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.GetRun(context.Background(), "3b9f4e58-0000-4000-8000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetRun error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetSnapshot(context.Background(), "3b9f4e58-0000-4000-8000-000000000001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSnapshot error = %v, want ErrNotFound", err)
	}
}
