package handler

import (
	"log/slog"
	"net/http"
	"time"

	"scholarflow/internal/cite"
	"scholarflow/internal/httputil"
	"scholarflow/internal/provider"
)

// CiteHandler handles citation formatting and model catalog requests
type CiteHandler struct {
	registry *provider.Registry
	logger   *slog.Logger
}

// NewCiteHandler creates a new citation handler
func NewCiteHandler(registry *provider.Registry, logger *slog.Logger) *CiteHandler {
	return &CiteHandler{
		registry: registry,
		logger:   logger,
	}
}

type citationResponse struct {
	Citation string `json:"citation"`
}

// FormatCitation formats a citation from the submitted source fields
// POST /api/citations
func (h *CiteHandler) FormatCitation(w http.ResponseWriter, r *http.Request) {
	var req cite.Request
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, citationResponse{
		Citation: cite.Format(req, time.Now()),
	})
}

// ListModels returns the model catalog
// GET /api/models
func (h *CiteHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.Models())
}
