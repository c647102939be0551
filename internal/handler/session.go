package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"scholarflow/internal/httputil"
	"scholarflow/internal/service"
	"scholarflow/internal/session"
)

// SessionHandler handles conversation session HTTP requests, including the
// SSE stream endpoint.
type SessionHandler struct {
	manager  *session.Manager
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, projects *service.ProjectService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager:  manager,
		projects: projects,
		logger:   logger,
	}
}

type createSessionRequest struct {
	ProjectID string `json:"project_id"`
}

type sessionResponse struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	CreatedAt time.Time      `json:"created_at"`
	State     string         `json:"state"`
	Research  bool           `json:"research_mode"`
	Turns     []session.Turn `json:"turns"`
}

type submitMessageRequest struct {
	Text string `json:"text"`
	// Research, when present, sets the session's research mode before the
	// submission is decorated.
	Research *bool `json:"research,omitempty"`
}

type submitMessageResponse struct {
	UserTurnID      string `json:"user_turn_id"`
	AssistantTurnID string `json:"assistant_turn_id"`
}

type setModeRequest struct {
	Research bool `json:"research"`
}

func toSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		CreatedAt: s.CreatedAt,
		State:     s.Driver.State(),
		Research:  s.Mode.Research(),
		Turns:     s.Transcript.Snapshot(),
	}
}

// Create opens a conversation session for a project
// POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.GetProject(r.Context(), req.ProjectID)
	if err != nil {
		handleError(w, err)
		return
	}

	s := h.manager.Open(project)
	httputil.RespondJSON(w, http.StatusCreated, toSessionResponse(s))
}

// Get returns a session with its transcript
// GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toSessionResponse(s))
}

// Delete closes a session, cancelling any in-flight exchange
// DELETE /api/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Close(r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitMessage accepts a user message for an open session. The exchange
// runs in the background; progress is observed via the stream endpoint or
// by re-fetching the session.
// POST /api/sessions/{id}/messages
func (h *SessionHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	var req submitMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Research != nil {
		s.Mode.SetResearch(*req.Research)
	}

	userTurnID, assistantTurnID, err := s.Driver.Submit(req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, submitMessageResponse{
		UserTurnID:      userTurnID,
		AssistantTurnID: assistantTurnID,
	})
}

// SetMode toggles research mode for a session. Takes effect on the next
// submission; an in-flight exchange keeps the mode it started with.
// PUT /api/sessions/{id}/mode
func (h *SessionHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	var req setModeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.Mode.SetResearch(req.Research)
	h.logger.Info("session mode changed", "session_id", s.ID, "research", req.Research)
	httputil.RespondJSON(w, http.StatusOK, toSessionResponse(s))
}

// Stream streams session events via Server-Sent Events
// GET /api/sessions/{id}/stream
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientID := uuid.New().String()
	events := s.Driver.AddClient(clientID)
	defer s.Driver.RemoveClient(clientID)

	h.logger.Debug("SSE client connected",
		"session_id", s.ID,
		"client_id", clientID,
	)

	// Keepalive comments prevent proxies from timing out an idle stream
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("SSE client disconnected",
				"session_id", s.ID,
				"client_id", clientID,
			)
			return

		case event, ok := <-events:
			if !ok {
				// Channel closed: the session was discarded
				return
			}
			fmt.Fprint(w, event)
			flusher.Flush()

		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
