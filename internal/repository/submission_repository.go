package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/campus-works/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// CreateForAcceptedBidder checks, under the task row lock, that the task is
// IN_PROGRESS, that the submitter owns the accepted proposal and that no
// submission exists yet. The unique index on task_id backs the last check.
func (r *GormSubmissionRepository) CreateForAcceptedBidder(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := lockTask(tx, submission.TaskID)
		if err != nil {
			return err
		}
		if task.Status != models.TaskStatusInProgress {
			return ErrStaleState
		}

		accepted, err := findAccepted(tx, submission.TaskID)
		if err != nil {
			return err
		}
		if accepted.BidderID != submission.SubmitterID {
			return ErrNotAcceptedBidder
		}

		var existing int64
		if err := tx.Model(&models.Submission{}).Where("task_id = ?", submission.TaskID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}

		submission.Status = models.SubmissionStatusSubmitted
		if err := tx.Omit(clause.Associations).Create(submission).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %v", ErrDuplicate, err)
			}
			return err
		}
		return nil
	})
}

// FindByID finds a submission by ID
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByTaskID finds the submission of a task
func (r *GormSubmissionRepository) FindByTaskID(ctx context.Context, taskID string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Submitter").
		Where("task_id = ?", taskID).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateStatus changes the review status of a submission
func (r *GormSubmissionRepository) UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
