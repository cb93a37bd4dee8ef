package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/campus-works/internal/models"
	"gorm.io/gorm"
)

// GormTransactionRepository is a GORM implementation of TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &GormTransactionRepository{db: db}
}

// CreatePending records a payment attempt while the task is IN_PROGRESS and
// has a submission.
func (r *GormTransactionRepository) CreatePending(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := lockTask(tx, txn.TaskID)
		if err != nil {
			return err
		}
		if task.Status != models.TaskStatusInProgress {
			return ErrStaleState
		}

		var submissions int64
		if err := tx.Model(&models.Submission{}).Where("task_id = ?", txn.TaskID).Count(&submissions).Error; err != nil {
			return err
		}
		if submissions == 0 {
			return ErrSubmissionMissing
		}

		txn.Status = models.TransactionStatusPending
		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %v", ErrDuplicate, err)
			}
			return err
		}
		return nil
	})
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindByOrderID finds a transaction by the gateway order ID
func (r *GormTransactionRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).Where("external_order_id = ?", orderID).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListByTask lists the transactions of a task, newest first
func (r *GormTransactionRepository) ListByTask(ctx context.Context, taskID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// Complete resolves the transaction and completes the task atomically. Either
// conditional write matching no row rolls both back.
func (r *GormTransactionRepository) Complete(ctx context.Context, id, paymentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("id = ?", id).First(&txn).Error; err != nil {
			return err
		}

		if err := advanceTask(tx, txn.TaskID, models.TaskStatusInProgress, models.TaskStatusCompleted); err != nil {
			return err
		}

		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", id, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":              models.TransactionStatusCompleted,
				"external_payment_id": paymentID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleState
		}
		return nil
	})
}

// Fail marks a pending transaction failed
func (r *GormTransactionRepository) Fail(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.TransactionStatusPending).
		Update("status", models.TransactionStatusFailed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}
