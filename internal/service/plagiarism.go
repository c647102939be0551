package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"scholarflow/internal/domain"
	"scholarflow/internal/domain/repositories"
)

// PlagiarismResult is the outcome of a simulated originality scan.
type PlagiarismResult struct {
	Similarity  int    `json:"similarity"`  // 0-14 percent
	Originality int    `json:"originality"` // 100 - similarity
	Verdict     string `json:"verdict"`
}

// PlagiarismService simulates an originality scan. No external databases
// are consulted; the similarity score is a bounded pseudo-random value,
// matching the product's demo behavior.
type PlagiarismService struct {
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlagiarismService creates a plagiarism service with the given random
// source. Tests inject a seeded source for determinism.
func NewPlagiarismService(projectRepo repositories.ProjectRepository, rng *rand.Rand, logger *slog.Logger) *PlagiarismService {
	return &PlagiarismService{
		projectRepo: projectRepo,
		logger:      logger,
		rng:         rng,
	}
}

// Check scans a project's current content and returns a simulated score.
// An empty document cannot be scanned.
func (s *PlagiarismService) Check(ctx context.Context, projectID string) (*PlagiarismResult, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(project.Content) == "" {
		return nil, fmt.Errorf("%w: document has no content to scan", domain.ErrValidation)
	}

	s.mu.Lock()
	similarity := s.rng.Intn(15)
	s.mu.Unlock()

	result := &PlagiarismResult{
		Similarity:  similarity,
		Originality: 100 - similarity,
		Verdict:     verdict(similarity),
	}

	s.logger.Info("plagiarism scan complete",
		"project_id", projectID,
		"similarity", similarity,
	)

	return result, nil
}

func verdict(similarity int) string {
	if similarity < 10 {
		return "Great job! Your content appears original."
	}
	return "Some similarities found. Review highlighted sections."
}
