package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

// Proposal is a bid placed on a task by a user other than its poster.
type Proposal struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskID    string         `gorm:"type:varchar(36);not null" json:"task_id"`
	BidderID  string         `gorm:"type:varchar(128);not null;index" json:"bidder_id"`
	GroupID   *string        `gorm:"type:varchar(36)" json:"group_id"`
	Amount    int64          `gorm:"not null" json:"amount"`
	Text      string         `gorm:"type:text" json:"proposal"`
	Status    ProposalStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relations
	Bidder User `gorm:"foreignKey:BidderID" json:"-"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
