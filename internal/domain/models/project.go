package models

import (
	"time"
)

// Project type constants
const (
	ProjectTypeThesis       = "thesis"
	ProjectTypeDissertation = "dissertation"
	ProjectTypePaper        = "paper"
)

// Project status constants
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusReview    = "review"
	ProjectStatusPublished = "published"
)

// Project represents an academic writing project (thesis, dissertation, paper)
type Project struct {
	ID           string        `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Type         string        `json:"type" db:"type"` // "thesis", "dissertation", "paper"
	Description  string        `json:"description" db:"description"`
	Content      string        `json:"content" db:"content"` // rich-text document body
	Outline      []OutlineItem `json:"outline" db:"outline"` // stored as JSON
	Status       string        `json:"status" db:"status"`   // "draft", "review", "published"
	Progress     int           `json:"progress" db:"progress"`
	LastModified time.Time     `json:"last_modified" db:"last_modified"`
}

// OutlineItem is one heading in a project's document outline
type OutlineItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"` // 1 for chapters, 2 for sections, 3 for subsections
}
