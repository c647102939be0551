package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"scholarflow/internal/domain"
	"scholarflow/internal/domain/models"
	"scholarflow/internal/domain/repositories"
)

// ProjectRepository is the SQLite-backed implementation of
// repositories.ProjectRepository. The outline is stored as a JSON column;
// projects are a small, local, single-user collection.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a project repository on the given database.
func NewProjectRepository(db *sql.DB) repositories.ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	outline, err := marshalOutline(project.Outline)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, type, description, content, outline, status, progress, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Title, project.Type, project.Description,
		project.Content, outline, project.Status, project.Progress, project.LastModified,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, type, description, content, outline, status, progress, last_modified
		FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List retrieves all projects ordered by last_modified descending.
func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, type, description, content, outline, status, progress, last_modified
		FROM projects ORDER BY last_modified DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Update persists the full project record.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	outline, err := marshalOutline(project.Outline)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, type = ?, description = ?, content = ?, outline = ?, status = ?, progress = ?, last_modified = ?
		WHERE id = ?`,
		project.Title, project.Type, project.Description, project.Content,
		outline, project.Status, project.Progress, project.LastModified, project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, project.ID)
	}
	return nil
}

// Delete removes a project by ID.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var outline string

	err := row.Scan(&p.ID, &p.Title, &p.Type, &p.Description, &p.Content,
		&outline, &p.Status, &p.Progress, &p.LastModified)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(outline), &p.Outline); err != nil {
		return nil, fmt.Errorf("failed to decode outline: %w", err)
	}
	if p.Outline == nil {
		p.Outline = []models.OutlineItem{}
	}
	return &p, nil
}

func marshalOutline(outline []models.OutlineItem) (string, error) {
	if outline == nil {
		outline = []models.OutlineItem{}
	}
	data, err := json.Marshal(outline)
	if err != nil {
		return "", fmt.Errorf("failed to encode outline: %w", err)
	}
	return string(data), nil
}
