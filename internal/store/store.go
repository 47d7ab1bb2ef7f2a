/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package store persists schedule runs and engine state snapshots. The
// engine itself does no I/O; everything durable lives here.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/heimdall_roster/internal/models"
	"github.com/friendsincode/heimdall_roster/internal/roster"
)

// ErrNotFound is returned when a run or snapshot id does not exist.
var ErrNotFound = errors.New("not found")

// Store persists schedule runs and snapshots.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New creates a store.
func New(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// BuildRecord bundles everything one finished build produces.
type BuildRecord struct {
	Config        roster.Config
	Result        *roster.Result
	Balance       roster.BalanceSummary
	Snapshot      roster.Snapshot
	ContinuedFrom string // snapshot id this build resumed, empty for fresh builds
}

// SaveRun persists a build and its continuation snapshot in one transaction.
func (s *Store) SaveRun(ctx context.Context, rec BuildRecord) (*models.ScheduleRun, *models.StateSnapshot, error) {
	status := models.RunStatusComplete
	if len(rec.Result.Gaps) > 0 {
		status = models.RunStatusPartial
	}

	run := &models.ScheduleRun{
		ID:                   uuid.NewString(),
		Status:               status,
		HorizonStart:         rec.Config.Start,
		HorizonEnd:           rec.Config.End,
		Guards:               rec.Config.Guards,
		Posts:                rec.Config.Posts,
		DayShiftHours:        rec.Config.Lengths.DayHours,
		NightShiftHours:      rec.Config.Lengths.NightHours,
		NightWindowStart:     rec.Config.NightStart,
		NightWindowEnd:       rec.Config.NightEnd,
		MaxConsecutiveNights: rec.Config.MaxConsecutiveNights,
		Balance:              rec.Balance,
	}
	if rec.ContinuedFrom != "" {
		run.ContinuedFrom = &rec.ContinuedFrom
	}

	for i, a := range rec.Result.Assignments {
		run.Assignments = append(run.Assignments, models.RosterAssignment{
			ID:       uuid.NewString(),
			RunID:    run.ID,
			Position: i,
			GuardID:  a.GuardID,
			PostID:   a.PostID,
			StartsAt: a.Start,
			EndsAt:   a.End,
			Night:    a.Night,
		})
	}
	for _, g := range rec.Result.Gaps {
		run.Gaps = append(run.Gaps, models.CoverageGap{
			ID:       uuid.NewString(),
			RunID:    run.ID,
			PostID:   g.PostID,
			StartsAt: g.Start,
			EndsAt:   g.End,
			Night:    g.Night,
		})
	}

	snapshot := &models.StateSnapshot{
		ID:         uuid.NewString(),
		RunID:      run.ID,
		HorizonEnd: rec.Snapshot.Metadata.HorizonEnd,
		Document:   rec.Snapshot,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Str("snapshot_id", snapshot.ID).
		Int("assignments", len(run.Assignments)).
		Int("gaps", len(run.Gaps)).
		Msg("schedule run persisted")

	return run, snapshot, nil
}

// GetRun fetches one run with its assignments and gaps in output order.
func (s *Store) GetRun(ctx context.Context, id string) (*models.ScheduleRun, error) {
	var run models.ScheduleRun
	err := s.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Gaps", func(db *gorm.DB) *gorm.DB { return db.Order("starts_at ASC") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns recent runs without their assignment bodies, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.ScheduleRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var runs []models.ScheduleRun
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// GetSnapshot fetches one stored snapshot document.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*models.StateSnapshot, error) {
	var snap models.StateSnapshot
	err := s.db.WithContext(ctx).First(&snap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// LatestSnapshot fetches the most recent snapshot for a run.
func (s *Store) LatestSnapshot(ctx context.Context, runID string) (*models.StateSnapshot, error) {
	var snap models.StateSnapshot
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
