package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

type TaskCategory string

const (
	CategoryAssignment   TaskCategory = "assignment"
	CategoryPresentation TaskCategory = "presentation"
	CategoryProject      TaskCategory = "project"
	CategoryOther        TaskCategory = "other"
)

// Valid reports whether c is a known task category.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryAssignment, CategoryPresentation, CategoryProject, CategoryOther:
		return true
	default:
		return false
	}
}

type Task struct {
	ID           string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Category     TaskCategory `gorm:"type:varchar(20);not null" json:"category"`
	BudgetMin    int64        `gorm:"not null" json:"budget_min"`
	BudgetMax    int64        `gorm:"not null" json:"budget_max"`
	Deadline     time.Time    `gorm:"not null" json:"deadline"`
	PosterID     string       `gorm:"type:varchar(128);not null;index" json:"poster_id"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	ReferenceURL string       `gorm:"type:varchar(1024)" json:"reference_url"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Poster    User       `gorm:"foreignKey:PosterID" json:"-"`
	Proposals []Proposal `gorm:"foreignKey:TaskID" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
