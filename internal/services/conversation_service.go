package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/repository"
	"github.com/yukikurage/campus-works/internal/utils"
)

// ConversationService handles public task comments and the private chat
// between a task's poster and its accepted bidder
type ConversationService struct {
	taskRepo     repository.TaskRepository
	proposalRepo repository.ProposalRepository
	commentRepo  repository.CommentRepository
	messageRepo  repository.MessageRepository
	notifier     Notifier
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	taskRepo repository.TaskRepository,
	proposalRepo repository.ProposalRepository,
	commentRepo repository.CommentRepository,
	messageRepo repository.MessageRepository,
	notifier Notifier,
) *ConversationService {
	return &ConversationService{
		taskRepo:     taskRepo,
		proposalRepo: proposalRepo,
		commentRepo:  commentRepo,
		messageRepo:  messageRepo,
		notifier:     notifierOrNop(notifier),
	}
}

// AddComment posts a public comment on a task
func (s *ConversationService) AddComment(ctx context.Context, taskID, userID, body string) (*models.Comment, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	if _, err := loadTask(ctx, s.taskRepo, taskID); err != nil {
		return nil, err
	}

	comment := &models.Comment{TaskID: taskID, UserID: userID, Body: body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.notifier.Broadcast(notify.Event{
		Kind:    notify.KindComment,
		TaskID:  taskID,
		UserID:  userID,
		Message: body,
		Payload: comment,
	})

	return comment, nil
}

// ListComments lists a task's comments, oldest first
func (s *ConversationService) ListComments(ctx context.Context, taskID string, params utils.PaginationParams) ([]models.Comment, int64, error) {
	if _, err := loadTask(ctx, s.taskRepo, taskID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.ListByTask(ctx, taskID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// SendMessage posts a chat message and publishes it on the task channel
func (s *ConversationService) SendMessage(ctx context.Context, taskID, senderID, body string) (*models.Message, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	if err := s.EnsureParticipant(ctx, taskID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{TaskID: taskID, SenderID: senderID, Body: body}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.notifier.Broadcast(notify.Event{
		Kind:    notify.KindMessage,
		TaskID:  taskID,
		UserID:  senderID,
		Message: body,
		Payload: message,
	})

	return message, nil
}

// ListMessages lists the task chat, oldest first
func (s *ConversationService) ListMessages(ctx context.Context, taskID, actorID string, params utils.PaginationParams) ([]models.Message, int64, error) {
	if err := s.EnsureParticipant(ctx, taskID, actorID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.messageRepo.ListByTask(ctx, taskID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}

// EnsureParticipant checks that userID is the task's poster or its accepted
// bidder
func (s *ConversationService) EnsureParticipant(ctx context.Context, taskID, userID string) error {
	task, err := loadTask(ctx, s.taskRepo, taskID)
	if err != nil {
		return err
	}
	if task.PosterID == userID {
		return nil
	}

	accepted, err := s.proposalRepo.FindAccepted(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNoAcceptedProposal) {
			return ErrNotTaskParticipant
		}
		return fmt.Errorf("failed to find accepted proposal: %w", err)
	}
	if accepted.BidderID != userID {
		return ErrNotTaskParticipant
	}
	return nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", validationError("message body is required")
	}
	if len(body) > constants.MaxMessageLength {
		return "", validationError("message body must be at most %d characters", constants.MaxMessageLength)
	}
	return body, nil
}
