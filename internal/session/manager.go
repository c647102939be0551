package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"scholarflow/internal/domain"
	"scholarflow/internal/domain/models"
	"scholarflow/internal/provider"
)

// contentContextLimit caps how much of the document body is carried into
// the assistant's base instruction.
const contentContextLimit = 1000

// Session is one per-document conversation: constructed at editor-open,
// discarded at editor-close. It owns its transcript and mode exclusively.
type Session struct {
	ID        string
	ProjectID string
	CreatedAt time.Time

	Transcript *Transcript
	Mode       *ModeController
	Driver     *Driver
}

// Manager tracks open sessions. There is no process-wide session singleton;
// each open document gets its own session value.
type Manager struct {
	backend provider.Provider
	model   string
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager using the given backend and model
// for all sessions it opens.
func NewManager(backend provider.Provider, model string, logger *slog.Logger) *Manager {
	return &Manager{
		backend:  backend,
		model:    model,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for a project. The base instruction embeds the
// project's type, title, description, and a bounded prefix of its content.
func (m *Manager) Open(project *models.Project) *Session {
	transcript := NewTranscript()
	mode := NewModeController()

	s := &Session{
		ID:         uuid.New().String(),
		ProjectID:  project.ID,
		CreatedAt:  time.Now(),
		Transcript: transcript,
		Mode:       mode,
	}
	s.Driver = NewDriver(transcript, mode, m.backend, m.model, baseInstruction(project), m.logger)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session opened",
		"session_id", s.ID,
		"project_id", project.ID,
		"model", m.model,
	)

	return s
}

// Get retrieves an open session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Close discards a session, cancelling any in-flight exchange.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}

	s.Driver.Close()
	m.logger.Info("session closed", "session_id", id)
	return nil
}

// baseInstruction builds the per-document system instruction the research
// assistant runs with.
func baseInstruction(project *models.Project) string {
	content := project.Content
	if len(content) > contentContextLimit {
		content = content[:contentContextLimit]
	}

	projectType := project.Type
	if projectType == "" {
		projectType = models.ProjectTypeThesis
	}

	return fmt.Sprintf(
		"You are a helpful academic research assistant helping a student write their %s. "+
			"Context: Title: %q, Description: %q. Current Content: %q...",
		projectType, project.Title, project.Description, content,
	)
}
