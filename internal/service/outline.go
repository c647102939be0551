package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"scholarflow/internal/domain/models"
	"scholarflow/internal/domain/repositories"
	"scholarflow/internal/provider"
)

const outlineInstruction = "You are an academic writing assistant. " +
	"Respond with a JSON array only, no prose and no code fences. " +
	"Each element is an object with fields \"title\" (string) and \"level\" " +
	"(integer: 1 for main chapters, 2 for sections, 3 for subsections)."

// OutlineService generates document outlines through a one-shot
// structured-JSON request to the backend. Not streaming.
type OutlineService struct {
	projectRepo repositories.ProjectRepository
	backend     provider.Provider
	model       string
	logger      *slog.Logger
}

// NewOutlineService creates a new outline service
func NewOutlineService(
	projectRepo repositories.ProjectRepository,
	backend provider.Provider,
	model string,
	logger *slog.Logger,
) *OutlineService {
	return &OutlineService{
		projectRepo: projectRepo,
		backend:     backend,
		model:       model,
		logger:      logger,
	}
}

// Generate produces an outline for the project, stores it, and returns it.
func (s *OutlineService) Generate(ctx context.Context, projectID string) ([]models.OutlineItem, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Generate a detailed academic outline for a %s titled %q. Description: %q. "+
			"Return a list of chapters and sections.",
		project.Type, project.Title, project.Description,
	)

	raw, err := s.backend.Generate(ctx, &provider.Request{
		Model:             s.model,
		SystemInstruction: outlineInstruction,
		Message:           prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("outline generation failed: %w", err)
	}

	outline, err := parseOutline(raw)
	if err != nil {
		return nil, fmt.Errorf("outline generation returned malformed output: %w", err)
	}

	project.Outline = outline
	project.LastModified = time.Now()
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("outline generated",
		"project_id", projectID,
		"items", len(outline),
	)

	return outline, nil
}

// parseOutline decodes the model's JSON array, tolerating code fences some
// models insist on emitting, and assigns ids.
func parseOutline(raw string) ([]models.OutlineItem, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var entries []struct {
		Title string `json:"title"`
		Level int    `json:"level"`
	}
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, err
	}

	outline := make([]models.OutlineItem, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		level := e.Level
		if level < 1 {
			level = 1
		}
		if level > 3 {
			level = 3
		}
		outline = append(outline, models.OutlineItem{
			ID:    uuid.New().String(),
			Title: strings.TrimSpace(e.Title),
			Level: level,
		})
	}
	return outline, nil
}
