/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the roster engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/friendsincode/heimdall_roster/internal/models"
	"github.com/friendsincode/heimdall_roster/internal/roster"
	"github.com/friendsincode/heimdall_roster/internal/scheduling"
	"github.com/friendsincode/heimdall_roster/internal/store"
	"github.com/friendsincode/heimdall_roster/internal/telemetry"
)

// API exposes HTTP handlers.
type API struct {
	store     *store.Store
	validator *scheduling.Validator
	logger    zerolog.Logger
}

// New creates the API router wrapper.
func New(st *store.Store, validator *scheduling.Validator, logger zerolog.Logger) *API {
	return &API{
		store:     st,
		validator: validator,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Routes mounts all API endpoints on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", a.handleSchedulesBuild)
			r.Post("/continue", a.handleSchedulesContinue)
			r.Get("/", a.handleSchedulesList)
			r.Get("/{runID}", a.handleSchedulesGet)
			r.Get("/{runID}/snapshot", a.handleRunSnapshotGet)
		})

		r.Get("/snapshots/{snapshotID}", a.handleSnapshotsGet)
		r.Get("/validate-time/{time}", a.handleValidateTime)
		r.Get("/algorithm", a.handleAlgorithmInfo)
	})
}

// scheduleResponse is the wire form of a finished build.
type scheduleResponse struct {
	RunID       string                `json:"run_id"`
	SnapshotID  string                `json:"snapshot_id"`
	Status      models.RunStatus      `json:"status"`
	Assignments []roster.Assignment   `json:"assignments"`
	Gaps        []roster.Gap          `json:"gaps"`
	Balance     roster.BalanceSummary `json:"work_balance"`
	Metadata    scheduleMetadata      `json:"metadata"`
}

type scheduleMetadata struct {
	TotalAssignments int       `json:"total_assignments"`
	TotalGaps        int       `json:"total_gaps"`
	UniqueGuards     int       `json:"unique_guards"`
	UniquePosts      int       `json:"unique_posts"`
	HorizonHours     float64   `json:"horizon_hours"`
	GeneratedAt      time.Time `json:"generated_at"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleSchedulesBuild(w http.ResponseWriter, r *http.Request) {
	var req scheduling.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	cfg, err := a.validator.ValidateBuild(req)
	if err != nil {
		a.writeRequestError(w, err)
		return
	}

	eng, err := roster.New(cfg)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	a.runAndRespond(w, r, eng, cfg, "fresh", "")
}

func (a *API) handleSchedulesContinue(w http.ResponseWriter, r *http.Request) {
	var req scheduling.ContinueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	opts, err := a.validator.ValidateContinue(req)
	if err != nil {
		a.writeRequestError(w, err)
		return
	}

	snap, err := a.store.GetSnapshot(r.Context(), req.SnapshotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot_not_found")
			return
		}
		a.logger.Error().Err(err).Msg("fetch snapshot")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	if err := a.validator.CheckContinuationHorizon(snap.Document.Metadata.HorizonEnd, opts.HorizonEnd); err != nil {
		a.writeRequestError(w, err)
		return
	}

	eng, err := roster.Continue(snap.Document, opts)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	cfg := roster.Config{
		Start:                snap.Document.Metadata.HorizonEnd,
		End:                  opts.HorizonEnd,
		Guards:               snap.Document.Metadata.Guards,
		Posts:                snap.Document.Metadata.Posts,
		Unavailability:       opts.Unavailability,
		Lengths:              snap.Document.Metadata.Lengths,
		NightStart:           snap.Document.Metadata.NightStart,
		NightEnd:             snap.Document.Metadata.NightEnd,
		MaxConsecutiveNights: snap.Document.Metadata.MaxConsecutiveNights,
		ScanFloor:            snap.Document.Metadata.ScanFloor,
	}

	a.runAndRespond(w, r, eng, cfg, "continued", snap.ID)
}

// runAndRespond solves, persists and serializes one build.
func (a *API) runAndRespond(w http.ResponseWriter, r *http.Request, eng *roster.Engine, cfg roster.Config, mode, continuedFrom string) {
	ctx, span := telemetry.StartSpan(r.Context(), "schedule.build")
	defer span.End()
	span.SetAttributes(
		attribute.String("schedule.mode", mode),
		attribute.Int("schedule.guards", len(cfg.Guards)),
		attribute.Int("schedule.posts", len(cfg.Posts)),
	)

	started := time.Now()
	result, err := eng.Solve()
	telemetry.ScheduleBuildDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		telemetry.SchedulesBuiltTotal.WithLabelValues(mode, "failed").Inc()
		a.writeEngineError(w, err)
		return
	}

	run, snapshot, err := a.store.SaveRun(ctx, store.BuildRecord{
		Config:        cfg,
		Result:        result,
		Balance:       eng.Balance(),
		Snapshot:      eng.Export(),
		ContinuedFrom: continuedFrom,
	})
	if err != nil {
		span.RecordError(err)
		a.logger.Error().Err(err).Msg("persist schedule run")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	telemetry.SchedulesBuiltTotal.WithLabelValues(mode, string(run.Status)).Inc()
	telemetry.AssignmentsTotal.Add(float64(len(result.Assignments)))
	telemetry.CoverageGapsTotal.Add(float64(len(result.Gaps)))

	a.logger.Info().
		Str("run_id", run.ID).
		Str("mode", mode).
		Int("assignments", len(result.Assignments)).
		Int("gaps", len(result.Gaps)).
		Msg("schedule built")

	writeJSON(w, http.StatusCreated, buildResponse(run, snapshot, result, eng.Balance(), cfg))
}

func buildResponse(run *models.ScheduleRun, snapshot *models.StateSnapshot, result *roster.Result, balance roster.BalanceSummary, cfg roster.Config) scheduleResponse {
	guards := make(map[string]struct{})
	posts := make(map[string]struct{})
	for _, a := range result.Assignments {
		guards[a.GuardID] = struct{}{}
		posts[a.PostID] = struct{}{}
	}

	gaps := result.Gaps
	if gaps == nil {
		gaps = []roster.Gap{}
	}

	return scheduleResponse{
		RunID:       run.ID,
		SnapshotID:  snapshot.ID,
		Status:      run.Status,
		Assignments: result.Assignments,
		Gaps:        gaps,
		Balance:     balance,
		Metadata: scheduleMetadata{
			TotalAssignments: len(result.Assignments),
			TotalGaps:        len(result.Gaps),
			UniqueGuards:     len(guards),
			UniquePosts:      len(posts),
			HorizonHours:     cfg.End.Sub(cfg.Start).Hours(),
			GeneratedAt:      time.Now().UTC(),
		},
	}
}

func (a *API) handleSchedulesGet(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := a.store.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run_not_found")
			return
		}
		a.logger.Error().Err(err).Str("run_id", runID).Msg("fetch run")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (a *API) handleSchedulesList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = parsed
	}

	runs, err := a.store.ListRuns(r.Context(), limit)
	if err != nil {
		a.logger.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (a *API) handleSnapshotsGet(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "snapshotID")

	snap, err := a.store.GetSnapshot(r.Context(), snapshotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot_not_found")
			return
		}
		a.logger.Error().Err(err).Str("snapshot_id", snapshotID).Msg("fetch snapshot")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (a *API) handleRunSnapshotGet(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	snap, err := a.store.LatestSnapshot(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot_not_found")
			return
		}
		a.logger.Error().Err(err).Str("run_id", runID).Msg("fetch run snapshot")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (a *API) handleValidateTime(w http.ResponseWriter, r *http.Request) {
	check := scheduling.ValidateHalfHour(chi.URLParam(r, "time"))
	writeJSON(w, http.StatusOK, check)
}

func (a *API) handleAlgorithmInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "rotating queue with fairness penalties",
		"selection": map[string]any{
			"queue":           "one rotation queue per post; selected guard moves to the tail",
			"lookahead":       roster.DefaultScanFloor,
			"night_penalty":   "100 when a guard is at or over the consecutive night limit",
			"balance_penalty": "5 per shift above the group average",
		},
		"defaults": map[string]any{
			"day_shift_hours":        scheduling.DefaultDayShiftHours,
			"night_shift_hours":      scheduling.DefaultNightShiftHours,
			"night_window":           scheduling.DefaultNightWindowStart + "-" + scheduling.DefaultNightWindowEnd,
			"max_consecutive_nights": scheduling.DefaultMaxConsecutiveNights,
		},
	})
}

// writeRequestError maps validation failures to a 400 with field details.
func (a *API) writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *scheduling.RequestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation_failed",
			"fields": reqErr.Fields,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "invalid_request")
}

// writeEngineError maps engine failures onto status codes. Config problems
// the validator could not see (e.g. a corrupt snapshot queue) are client
// errors; an empty result is 422.
func (a *API) writeEngineError(w http.ResponseWriter, err error) {
	var queueErr *roster.QueueOrderError
	switch {
	case errors.Is(err, roster.ErrNoAssignments):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "no_assignments",
			"message": "no guard could be assigned to any required slot in the horizon",
		})
	case errors.As(err, &queueErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_queue_order",
			"post_id": queueErr.PostID,
			"missing": queueErr.Missing,
			"extra":   queueErr.Extra,
		})
	default:
		a.logger.Warn().Err(err).Msg("engine rejected configuration")
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_configuration",
			"message": err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
