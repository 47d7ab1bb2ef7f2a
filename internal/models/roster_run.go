/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"time"

	"github.com/friendsincode/heimdall_roster/internal/roster"
)

// RunStatus tracks whether a persisted run covered its whole horizon.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete" // every required slot assigned
	RunStatusPartial  RunStatus = "partial"  // at least one coverage gap
)

// ScheduleRun is one persisted schedule build, either fresh or continued
// from a snapshot.
type ScheduleRun struct {
	ID                   string                `gorm:"type:uuid;primaryKey"`
	Status               RunStatus             `gorm:"type:varchar(16);not null"`
	HorizonStart         time.Time             `gorm:"index;not null"`
	HorizonEnd           time.Time             `gorm:"not null"`
	Guards               []string              `gorm:"type:jsonb;serializer:json;not null"`
	Posts                []roster.Post         `gorm:"type:jsonb;serializer:json;not null"`
	DayShiftHours        float64               `gorm:"not null"`
	NightShiftHours      float64               `gorm:"not null"`
	NightWindowStart     string                `gorm:"type:varchar(5);not null"`
	NightWindowEnd       string                `gorm:"type:varchar(5);not null"`
	MaxConsecutiveNights int                   `gorm:"not null"`
	ContinuedFrom        *string               `gorm:"type:uuid"` // snapshot this run resumed
	Balance              roster.BalanceSummary `gorm:"type:jsonb;serializer:json"`

	Assignments []RosterAssignment `gorm:"foreignKey:RunID"`
	Gaps        []CoverageGap      `gorm:"foreignKey:RunID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (ScheduleRun) TableName() string {
	return "schedule_runs"
}

// RosterAssignment is one guard-post-slot assignment within a run.
// Position preserves the engine's chronological output ordering.
type RosterAssignment struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	RunID    string    `gorm:"type:uuid;index:idx_roster_assignments_run;not null"`
	Position int       `gorm:"not null"`
	GuardID  string    `gorm:"type:varchar(128);index;not null"`
	PostID   string    `gorm:"type:varchar(128);not null"`
	StartsAt time.Time `gorm:"index;not null"`
	EndsAt   time.Time `gorm:"not null"`
	Night    bool      `gorm:"not null"`

	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (RosterAssignment) TableName() string {
	return "roster_assignments"
}

// CoverageGap is a required slot no available guard could fill.
type CoverageGap struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	RunID    string    `gorm:"type:uuid;index:idx_coverage_gaps_run;not null"`
	PostID   string    `gorm:"type:varchar(128);not null"`
	StartsAt time.Time `gorm:"not null"`
	EndsAt   time.Time `gorm:"not null"`
	Night    bool      `gorm:"not null"`

	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (CoverageGap) TableName() string {
	return "coverage_gaps"
}

// StateSnapshot stores an exported engine snapshot so a later session can
// continue the roster where this run stopped.
type StateSnapshot struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	RunID      string          `gorm:"type:uuid;index:idx_state_snapshots_run;not null"`
	HorizonEnd time.Time       `gorm:"not null"`
	Document   roster.Snapshot `gorm:"type:jsonb;serializer:json;not null"`

	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (StateSnapshot) TableName() string {
	return "state_snapshots"
}
