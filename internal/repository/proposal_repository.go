package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/campus-works/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProposalRepository is a GORM implementation of ProposalRepository
type GormProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &GormProposalRepository{db: db}
}

// CreateForOpenTask inserts the proposal under the task row lock so that no
// bid lands after the task left OPEN.
func (r *GormProposalRepository) CreateForOpenTask(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := lockTask(tx, proposal.TaskID)
		if err != nil {
			return err
		}
		if task.Status != models.TaskStatusOpen {
			return ErrStaleState
		}

		proposal.Status = models.ProposalStatusPending
		return tx.Omit(clause.Associations).Create(proposal).Error
	})
}

// FindByID finds a proposal by ID
func (r *GormProposalRepository) FindByID(ctx context.Context, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&proposal).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ListByTask lists the proposals of a task, oldest first
func (r *GormProposalRepository) ListByTask(ctx context.Context, taskID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// FindAccepted finds the accepted proposal of a task
func (r *GormProposalRepository) FindAccepted(ctx context.Context, taskID string) (*models.Proposal, error) {
	return findAccepted(r.db.WithContext(ctx), taskID)
}

// Accept applies the whole acceptance in one transaction: the task moves
// OPEN -> IN_PROGRESS first, which takes the task row lock and makes a
// concurrent acceptance on the same task fail, then the proposal moves
// PENDING -> ACCEPTED and every sibling becomes REJECTED.
func (r *GormProposalRepository) Accept(ctx context.Context, taskID, proposalID string) ([]models.Proposal, error) {
	var rejected []models.Proposal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advanceTask(tx, taskID, models.TaskStatusOpen, models.TaskStatusInProgress); err != nil {
			return err
		}

		result := tx.Model(&models.Proposal{}).
			Where("id = ? AND task_id = ? AND status = ?", proposalID, taskID, models.ProposalStatusPending).
			Update("status", models.ProposalStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleState
		}

		if err := tx.Where("task_id = ? AND id <> ? AND status = ?", taskID, proposalID, models.ProposalStatusPending).
			Find(&rejected).Error; err != nil {
			return err
		}

		return tx.Model(&models.Proposal{}).
			Where("task_id = ? AND id <> ? AND status <> ?", taskID, proposalID, models.ProposalStatusRejected).
			Update("status", models.ProposalStatusRejected).Error
	})
	if err != nil {
		return nil, err
	}

	for i := range rejected {
		rejected[i].Status = models.ProposalStatusRejected
	}
	return rejected, nil
}

// Reject rejects a pending proposal
func (r *GormProposalRepository) Reject(ctx context.Context, proposalID string) error {
	result := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("id = ? AND status = ?", proposalID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func findAccepted(db *gorm.DB, taskID string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Where("task_id = ? AND status = ?", taskID, models.ProposalStatusAccepted).First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoAcceptedProposal
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}
