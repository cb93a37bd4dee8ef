package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusSubmitted        SubmissionStatus = "SUBMITTED"
	SubmissionStatusApproved         SubmissionStatus = "APPROVED"
	SubmissionStatusChangesRequested SubmissionStatus = "CHANGES_REQUESTED"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusSubmitted, SubmissionStatusApproved, SubmissionStatusChangesRequested:
		return true
	default:
		return false
	}
}

type Submission struct {
	ID          string           `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskID      string           `gorm:"type:varchar(36);uniqueIndex;not null" json:"task_id"`
	SubmitterID string           `gorm:"type:varchar(128);not null;index" json:"submitter_id"`
	Description string           `gorm:"type:text;not null" json:"description"`
	LinkURL     string           `gorm:"type:varchar(1024)" json:"link_url"`
	FileURL     string           `gorm:"type:varchar(1024)" json:"file_url"`
	Status      SubmissionStatus `gorm:"type:varchar(30);not null;default:'SUBMITTED'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Submitter User `gorm:"foreignKey:SubmitterID" json:"-"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
