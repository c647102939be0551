package repositories

import (
	"context"

	"scholarflow/internal/domain/models"
)

// ProjectRepository defines data access for projects
type ProjectRepository interface {
	// Create inserts a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	// Returns domain.ErrNotFound if the project does not exist
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// List retrieves all projects ordered by last_modified descending
	List(ctx context.Context) ([]models.Project, error)

	// Update persists the full project record
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project by ID
	Delete(ctx context.Context, id string) error
}
