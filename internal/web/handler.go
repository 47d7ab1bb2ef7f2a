/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package web serves the built frontend bundle. Unknown paths fall back to
// index.html so client side routing works on hard reloads.
package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves static assets from a directory.
type Handler struct {
	staticDir string
	logger    zerolog.Logger
}

// NewHandler creates a static asset handler rooted at staticDir.
func NewHandler(staticDir string, logger zerolog.Logger) *Handler {
	return &Handler{
		staticDir: staticDir,
		logger:    logger.With().Str("component", "web").Logger(),
	}
}

// Routes mounts the static handler as the router's catch-all.
func (h *Handler) Routes(r chi.Router) {
	r.NotFound(h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// http.ServeFile refuses these anyway; reject up front so traversal
	// attempts never reach the filesystem.
	if strings.Contains(r.URL.Path, "..") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	// API misses stay JSON 404s instead of turning into the SPA shell.
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found"}`))
		return
	}

	name := filepath.Join(h.staticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}

	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		h.logger.Debug().Str("path", r.URL.Path).Msg("no frontend bundle present")
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}
