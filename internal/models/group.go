package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRole string

const (
	GroupRoleLeader GroupRole = "leader"
	GroupRoleMember GroupRole = "member"
)

// Group is a set of users that may bid on a task together.
type Group struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// TableName avoids GROUPS, a reserved word on MySQL 8.
func (Group) TableName() string {
	return "student_groups"
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GroupMember keeps the member order through Position; the first member leads.
type GroupMember struct {
	GroupID  string    `gorm:"type:varchar(36);primarykey" json:"group_id"`
	UserID   string    `gorm:"type:varchar(128);primarykey" json:"user_id"`
	Role     GroupRole `gorm:"type:varchar(20);not null" json:"role"`
	Position int       `gorm:"not null" json:"position"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
