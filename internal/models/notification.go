package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string    `gorm:"type:varchar(128);not null" json:"user_id"`
	TaskID    string    `gorm:"type:varchar(36);not null" json:"task_id"`
	Kind      string    `gorm:"type:varchar(40);not null" json:"kind"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Task{},
		&Proposal{},
		&Submission{},
		&Transaction{},
		&Group{},
		&GroupMember{},
		&Comment{},
		&Message{},
		&Notification{},
	}
}
