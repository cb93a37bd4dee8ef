package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is one payment attempt for a task. Amount is BaseAmount plus
// FeeAmount, all in whole currency units.
type Transaction struct {
	ID                string            `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskID            string            `gorm:"type:varchar(36);not null;index" json:"task_id"`
	ProposalID        string            `gorm:"type:varchar(36);not null" json:"proposal_id"`
	PayerID           string            `gorm:"type:varchar(128);not null" json:"payer_id"`
	BaseAmount        int64             `gorm:"not null" json:"base_amount"`
	FeeAmount         int64             `gorm:"not null" json:"fee_amount"`
	Amount            int64             `gorm:"not null" json:"amount"`
	ExternalOrderID   string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_order_id"`
	ExternalPaymentID string            `gorm:"type:varchar(64)" json:"external_payment_id"`
	Status            TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
