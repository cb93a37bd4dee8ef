package dto

import (
	"time"

	"github.com/yukikurage/campus-works/internal/models"
)

// GroupMemberDTO represents a group member in API responses
type GroupMemberDTO struct {
	UserID   string           `json:"user_id"`
	Role     models.GroupRole `json:"role"`
	Position int              `json:"position"`
	User     *UserDTO         `json:"user,omitempty"`
}

// GroupDTO represents a group in API responses
type GroupDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Members     []GroupMemberDTO `json:"members"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group) GroupDTO {
	dto := GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Members:     make([]GroupMemberDTO, len(group.Members)),
		CreatedAt:   group.CreatedAt,
	}
	for i, m := range group.Members {
		member := GroupMemberDTO{
			UserID:   m.UserID,
			Role:     m.Role,
			Position: m.Position,
		}
		if m.User.ID != "" {
			user := ToUserDTO(m.User)
			member.User = &user
		}
		dto.Members[i] = member
	}
	return dto
}

// ToGroupDTOs converts a slice of groups
func ToGroupDTOs(groups []models.Group) []GroupDTO {
	result := make([]GroupDTO, len(groups))
	for i, g := range groups {
		result[i] = ToGroupDTO(g)
	}
	return result
}
