package dto

import (
	"time"

	"github.com/yukikurage/campus-works/internal/models"
)

// CommentDTO represents a task comment
type CommentDTO struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// MessageDTO represents a chat message
type MessageDTO struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Sender    *UserDTO  `json:"sender,omitempty"`
}

// NotificationDTO represents an inbox entry
type NotificationDTO struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	result := make([]CommentDTO, len(comments))
	for i, c := range comments {
		result[i] = ToCommentDTO(c)
	}
	return result
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(c models.Comment) CommentDTO {
	dto := CommentDTO{ID: c.ID, TaskID: c.TaskID, UserID: c.UserID, Body: c.Body, CreatedAt: c.CreatedAt}
	if c.User.ID != "" {
		user := ToUserDTO(c.User)
		dto.User = &user
	}
	return dto
}

// ToMessageDTOs converts a slice of messages
func ToMessageDTOs(messages []models.Message) []MessageDTO {
	result := make([]MessageDTO, len(messages))
	for i, m := range messages {
		result[i] = ToMessageDTO(m)
	}
	return result
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(m models.Message) MessageDTO {
	dto := MessageDTO{ID: m.ID, TaskID: m.TaskID, SenderID: m.SenderID, Body: m.Body, CreatedAt: m.CreatedAt}
	if m.Sender.ID != "" {
		sender := ToUserDTO(m.Sender)
		dto.Sender = &sender
	}
	return dto
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	result := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		result[i] = NotificationDTO{
			ID:        n.ID,
			TaskID:    n.TaskID,
			Kind:      n.Kind,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return result
}
