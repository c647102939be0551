package handler

import (
	"log/slog"
	"net/http"

	"scholarflow/internal/httputil"
	"scholarflow/internal/service"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projects   *service.ProjectService
	outlines   *service.OutlineService
	plagiarism *service.PlagiarismService
	logger     *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *service.ProjectService, outlines *service.OutlineService, plagiarism *service.PlagiarismService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		outlines:   outlines,
		plagiarism: plagiarism,
		logger:     logger,
	}
}

// List retrieves all projects
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListProjects(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// Create creates a new project
// POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("project created", "project_id", project.ID, "type", project.Type)
	httputil.RespondJSON(w, http.StatusCreated, project)
}

// Get retrieves a project by ID
// GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// Update applies a partial update to a project
// PATCH /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// Delete deletes a project
// DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateOutline generates an outline for a project and stores it
// POST /api/projects/{id}/outline
func (h *ProjectHandler) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	outline, err := h.outlines.Generate(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("outline generated", "project_id", id, "sections", len(outline))
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"outline": outline})
}

// CheckPlagiarism runs a similarity check over the project content
// POST /api/projects/{id}/plagiarism
func (h *ProjectHandler) CheckPlagiarism(w http.ResponseWriter, r *http.Request) {
	result, err := h.plagiarism.Check(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
