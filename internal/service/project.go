package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"scholarflow/internal/domain"
	"scholarflow/internal/domain/models"
	"scholarflow/internal/domain/repositories"
)

// CreateProjectRequest is the DTO for creating a new project
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UpdateProjectRequest is the DTO for partially updating a project.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Content     *string               `json:"content,omitempty"`
	Outline     []models.OutlineItem  `json:"outline,omitempty"`
	Status      *string               `json:"status,omitempty"`
	Progress    *int                  `json:"progress,omitempty"`
}

// ProjectService implements project CRUD on top of the repository.
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repositories.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateProject creates a new project in draft status.
func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := &models.Project{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(req.Title),
		Type:         req.Type,
		Description:  strings.TrimSpace(req.Description),
		Content:      "",
		Outline:      []models.OutlineItem{},
		Status:       models.ProjectStatusDraft,
		Progress:     0,
		LastModified: time.Now(),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
		"type", project.Type,
	)

	return project, nil
}

// GetProject retrieves a project by ID.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects retrieves all projects, most recently modified first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

// UpdateProject applies a partial update and bumps last_modified.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Content != nil {
		project.Content = *req.Content
	}
	if req.Outline != nil {
		project.Outline = req.Outline
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}
	project.LastModified = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "id", project.ID)
	return project, nil
}

// DeleteProject removes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

func (s *ProjectService) validateCreateRequest(req *CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Type,
			validation.Required,
			validation.In(models.ProjectTypeThesis, models.ProjectTypeDissertation, models.ProjectTypePaper),
		),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}

func (s *ProjectService) validateUpdateRequest(req *UpdateProjectRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return fmt.Errorf("title cannot be blank")
	}
	if req.Status != nil {
		switch *req.Status {
		case models.ProjectStatusDraft, models.ProjectStatusReview, models.ProjectStatusPublished:
		default:
			return fmt.Errorf("status must be one of: draft, review, published")
		}
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	return nil
}
