package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/repository"
	"gorm.io/gorm"
)

// SubmissionService handles work delivery by the accepted bidder
type SubmissionService struct {
	taskRepo       repository.TaskRepository
	proposalRepo   repository.ProposalRepository
	submissionRepo repository.SubmissionRepository
	notifier       Notifier
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	taskRepo repository.TaskRepository,
	proposalRepo repository.ProposalRepository,
	submissionRepo repository.SubmissionRepository,
	notifier Notifier,
) *SubmissionService {
	return &SubmissionService{
		taskRepo:       taskRepo,
		proposalRepo:   proposalRepo,
		submissionRepo: submissionRepo,
		notifier:       notifierOrNop(notifier),
	}
}

// SubmitWorkInput represents a work delivery
type SubmitWorkInput struct {
	TaskID      string
	SubmitterID string
	Description string
	LinkURL     string
	FileURL     string
}

// SubmitWork stores the single submission of a task
func (s *SubmissionService) SubmitWork(ctx context.Context, input SubmitWorkInput) (*models.Submission, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, validationError("description is required")
	}

	linkURL := strings.TrimSpace(input.LinkURL)
	if linkURL != "" && !isWebURL(linkURL) {
		return nil, validationError("link_url must be an http or https URL")
	}
	fileURL := strings.TrimSpace(input.FileURL)
	if fileURL != "" && !isWebURL(fileURL) {
		return nil, validationError("file_url must be an http or https URL")
	}

	task, err := loadTask(ctx, s.taskRepo, input.TaskID)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		TaskID:      task.ID,
		SubmitterID: input.SubmitterID,
		Description: description,
		LinkURL:     linkURL,
		FileURL:     fileURL,
	}

	if err := s.submissionRepo.CreateForAcceptedBidder(ctx, submission); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotAcceptedBidder):
			return nil, ErrNotAcceptedBidder
		case errors.Is(err, repository.ErrNoAcceptedProposal):
			return nil, ErrNoAcceptedProposal
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrSubmissionExists
		case errors.Is(err, repository.ErrStaleState):
			return nil, s.staleTaskError(ctx, task.ID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTaskNotFound
		default:
			return nil, fmt.Errorf("failed to create submission: %w", err)
		}
	}

	s.notifier.Notify(task.PosterID, notify.Event{
		Kind:    notify.KindWorkSubmitted,
		TaskID:  task.ID,
		Message: fmt.Sprintf("Work has been submitted for \"%s\"", task.Title),
	})

	return submission, nil
}

// GetSubmissionForTask returns the task's submission to its poster or its
// accepted bidder
func (s *SubmissionService) GetSubmissionForTask(ctx context.Context, taskID, actorID string) (*models.Submission, error) {
	task, err := loadTask(ctx, s.taskRepo, taskID)
	if err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	if actorID != task.PosterID && actorID != submission.SubmitterID {
		return nil, ErrNotTaskParticipant
	}

	return submission, nil
}

// UpdateSubmissionStatus records the poster's review of the submission
func (s *SubmissionService) UpdateSubmissionStatus(ctx context.Context, submissionID, actorID string, status models.SubmissionStatus) (*models.Submission, error) {
	if !status.Valid() {
		return nil, validationError("status must be SUBMITTED, APPROVED or CHANGES_REQUESTED")
	}

	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	task, err := loadTask(ctx, s.taskRepo, submission.TaskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, ErrNotTaskPoster
	}

	if submission.Status == status {
		return submission, nil
	}

	if err := s.submissionRepo.UpdateStatus(ctx, submission.ID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	submission.Status = status

	s.notifier.Notify(submission.SubmitterID, notify.Event{
		Kind:    notify.KindSubmissionReview,
		TaskID:  task.ID,
		Message: fmt.Sprintf("Your submission for \"%s\" is now %s", task.Title, status),
	})

	return submission, nil
}

// staleTaskError explains why a task was not IN_PROGRESS at write time.
func (s *SubmissionService) staleTaskError(ctx context.Context, taskID string) error {
	task, err := loadTask(ctx, s.taskRepo, taskID)
	if err != nil {
		return err
	}
	if task.Status == models.TaskStatusOpen {
		return ErrNoAcceptedProposal
	}
	return ErrSubmissionExists
}
