package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"scholarflow/internal/domain"
	"scholarflow/internal/domain/models"
)

// memoryProjectRepo is an in-memory ProjectRepository for service tests.
type memoryProjectRepo struct {
	mu       sync.Mutex
	projects map[string]models.Project
}

func newMemoryProjectRepo() *memoryProjectRepo {
	return &memoryProjectRepo{projects: make(map[string]models.Project)}
}

func (r *memoryProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = *project
	return nil
}

func (r *memoryProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	out := p
	return &out, nil
}

func (r *memoryProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out, nil
}

func (r *memoryProjectRepo) Update(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, project.ID)
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *memoryProjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	delete(r.projects, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateProject(t *testing.T) {
	svc := NewProjectService(newMemoryProjectRepo(), testLogger())

	project, err := svc.CreateProject(context.Background(), &CreateProjectRequest{
		Title:       "  Machine Learning in Medicine  ",
		Type:        models.ProjectTypeThesis,
		Description: "A survey",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if project.ID == "" {
		t.Error("project has no ID")
	}
	if project.Title != "Machine Learning in Medicine" {
		t.Errorf("title = %q, want trimmed", project.Title)
	}
	if project.Status != models.ProjectStatusDraft {
		t.Errorf("status = %q, want draft", project.Status)
	}
	if project.Progress != 0 {
		t.Errorf("progress = %d, want 0", project.Progress)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc := NewProjectService(newMemoryProjectRepo(), testLogger())

	tests := []struct {
		name string
		req  CreateProjectRequest
	}{
		{name: "missing title", req: CreateProjectRequest{Type: models.ProjectTypeThesis}},
		{name: "missing type", req: CreateProjectRequest{Title: "T"}},
		{name: "bad type", req: CreateProjectRequest{Title: "T", Type: "novel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProject(context.Background(), &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateProjectPartial(t *testing.T) {
	svc := NewProjectService(newMemoryProjectRepo(), testLogger())

	project, err := svc.CreateProject(context.Background(), &CreateProjectRequest{
		Title: "Original", Type: models.ProjectTypePaper, Description: "desc",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	content := "chapter one"
	progress := 40
	updated, err := svc.UpdateProject(context.Background(), project.ID, &UpdateProjectRequest{
		Content:  &content,
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}

	if updated.Content != "chapter one" || updated.Progress != 40 {
		t.Errorf("update not applied: content=%q progress=%d", updated.Content, updated.Progress)
	}
	// Untouched fields survive a partial update.
	if updated.Title != "Original" || updated.Description != "desc" {
		t.Errorf("partial update clobbered fields: %+v", updated)
	}
}

func TestUpdateProjectValidation(t *testing.T) {
	svc := NewProjectService(newMemoryProjectRepo(), testLogger())

	project, err := svc.CreateProject(context.Background(), &CreateProjectRequest{
		Title: "T", Type: models.ProjectTypePaper,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	badStatus := "archived"
	if _, err := svc.UpdateProject(context.Background(), project.ID, &UpdateProjectRequest{Status: &badStatus}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad status: got %v, want ErrValidation", err)
	}

	badProgress := 120
	if _, err := svc.UpdateProject(context.Background(), project.ID, &UpdateProjectRequest{Progress: &badProgress}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad progress: got %v, want ErrValidation", err)
	}

	blank := "   "
	if _, err := svc.UpdateProject(context.Background(), project.ID, &UpdateProjectRequest{Title: &blank}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank title: got %v, want ErrValidation", err)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	svc := NewProjectService(newMemoryProjectRepo(), testLogger())

	if _, err := svc.GetProject(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteProject(t *testing.T) {
	svc := NewProjectService(newMemoryProjectRepo(), testLogger())

	project, err := svc.CreateProject(context.Background(), &CreateProjectRequest{
		Title: "T", Type: models.ProjectTypeDissertation,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if err := svc.DeleteProject(context.Background(), project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := svc.GetProject(context.Background(), project.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}
