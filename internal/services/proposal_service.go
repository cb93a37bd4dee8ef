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
	"gorm.io/gorm"
)

// ProposalService handles bidding and the acceptance decision
type ProposalService struct {
	taskRepo     repository.TaskRepository
	proposalRepo repository.ProposalRepository
	groupRepo    repository.GroupRepository
	notifier     Notifier
}

// NewProposalService creates a new ProposalService
func NewProposalService(
	taskRepo repository.TaskRepository,
	proposalRepo repository.ProposalRepository,
	groupRepo repository.GroupRepository,
	notifier Notifier,
) *ProposalService {
	return &ProposalService{
		taskRepo:     taskRepo,
		proposalRepo: proposalRepo,
		groupRepo:    groupRepo,
		notifier:     notifierOrNop(notifier),
	}
}

// SubmitProposalInput represents input for placing a bid
type SubmitProposalInput struct {
	TaskID   string
	BidderID string
	GroupID  *string
	Amount   *int64
	Text     string
}

// DecideProposalInput represents the poster's decision on a bid
type DecideProposalInput struct {
	ProposalID string
	ActorID    string
	Decision   models.ProposalStatus
}

// SubmitProposal places a PENDING bid on an OPEN task
func (s *ProposalService) SubmitProposal(ctx context.Context, input SubmitProposalInput) (*models.Proposal, error) {
	if input.Amount == nil {
		return nil, validationError("amount is required")
	}
	if *input.Amount < 0 {
		return nil, validationError("amount cannot be negative")
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, validationError("proposal text is required")
	}
	if len(text) > constants.MaxProposalLength {
		return nil, validationError("proposal text must be at most %d characters", constants.MaxProposalLength)
	}

	task, err := loadTask(ctx, s.taskRepo, input.TaskID)
	if err != nil {
		return nil, err
	}

	if task.PosterID == input.BidderID {
		return nil, ErrSelfBid
	}
	if task.Status != models.TaskStatusOpen {
		return nil, ErrTaskNotOpen
	}

	var groupID *string
	if input.GroupID != nil && strings.TrimSpace(*input.GroupID) != "" {
		id := strings.TrimSpace(*input.GroupID)
		if err := s.ensureGroupMember(ctx, id, input.BidderID); err != nil {
			return nil, err
		}
		groupID = &id
	}

	proposal := &models.Proposal{
		TaskID:   task.ID,
		BidderID: input.BidderID,
		GroupID:  groupID,
		Amount:   *input.Amount,
		Text:     text,
	}

	if err := s.proposalRepo.CreateForOpenTask(ctx, proposal); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrTaskNotOpen
		}
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.notifier.Notify(task.PosterID, notify.Event{
		Kind:    notify.KindProposalSubmitted,
		TaskID:  task.ID,
		Message: fmt.Sprintf("New proposal of %d on \"%s\"", proposal.Amount, task.Title),
	})

	return proposal, nil
}

// ListProposals lists the bids on a task
func (s *ProposalService) ListProposals(ctx context.Context, taskID string) ([]models.Proposal, error) {
	if _, err := loadTask(ctx, s.taskRepo, taskID); err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// DecideProposal accepts or rejects a PENDING bid. Accepting is exclusive:
// every sibling bid is rejected and the task moves to IN_PROGRESS in the same
// transaction.
func (s *ProposalService) DecideProposal(ctx context.Context, input DecideProposalInput) (*models.Proposal, error) {
	if input.Decision != models.ProposalStatusAccepted && input.Decision != models.ProposalStatusRejected {
		return nil, validationError("status must be ACCEPTED or REJECTED")
	}

	proposal, err := s.proposalRepo.FindByID(ctx, input.ProposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	task, err := loadTask(ctx, s.taskRepo, proposal.TaskID)
	if err != nil {
		return nil, err
	}

	if task.PosterID != input.ActorID {
		return nil, ErrNotTaskPoster
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, s.notPendingError(ctx, proposal)
	}

	if input.Decision == models.ProposalStatusRejected {
		if err := s.proposalRepo.Reject(ctx, proposal.ID); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return nil, s.notPendingError(ctx, proposal)
			}
			return nil, fmt.Errorf("failed to reject proposal: %w", err)
		}

		proposal.Status = models.ProposalStatusRejected
		s.notifier.Notify(proposal.BidderID, notify.Event{
			Kind:    notify.KindProposalRejected,
			TaskID:  task.ID,
			Message: fmt.Sprintf("Your proposal for \"%s\" was not accepted", task.Title),
		})
		return proposal, nil
	}

	rejected, err := s.proposalRepo.Accept(ctx, task.ID, proposal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, s.notPendingError(ctx, proposal)
		}
		return nil, fmt.Errorf("failed to accept proposal: %w", err)
	}

	proposal.Status = models.ProposalStatusAccepted
	s.notifier.Notify(proposal.BidderID, notify.Event{
		Kind:    notify.KindProposalAccepted,
		TaskID:  task.ID,
		Message: fmt.Sprintf("Your proposal for \"%s\" was accepted", task.Title),
	})
	for _, sibling := range rejected {
		s.notifier.Notify(sibling.BidderID, notify.Event{
			Kind:    notify.KindProposalRejected,
			TaskID:  task.ID,
			Message: fmt.Sprintf("Another proposal was accepted for \"%s\"", task.Title),
		})
	}

	return proposal, nil
}

// notPendingError tells a lost race apart from a decision on an already
// decided bid.
func (s *ProposalService) notPendingError(ctx context.Context, proposal *models.Proposal) error {
	accepted, err := s.proposalRepo.FindAccepted(ctx, proposal.TaskID)
	if err == nil && accepted.ID != proposal.ID {
		return ErrProposalAlreadyAccepted
	}
	return ErrProposalNotPending
}

func (s *ProposalService) ensureGroupMember(ctx context.Context, groupID, userID string) error {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	ok, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify group membership: %w", err)
	}
	if !ok {
		return ErrNotGroupMember
	}
	return nil
}
