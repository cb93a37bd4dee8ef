package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/repository"
	"github.com/yukikurage/campus-works/internal/utils"
	"gorm.io/gorm"
)

// deadlineLayouts are tried in order when parsing a deadline.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	aiService *AIService
	now       func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		aiService: aiService,
		now:       time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	PosterID     string
	Title        string
	Description  string
	Category     models.TaskCategory
	BudgetMin    *int64
	BudgetMax    *int64
	Deadline     string
	ReferenceURL string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status   *models.TaskStatus
	Category *models.TaskCategory
	PosterID *string
	Page     int
	PageSize int
}

// CreateTask validates the posting and stores it as OPEN
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if len(title) > constants.MaxTitleLength {
		return nil, validationError("title must be at most %d characters", constants.MaxTitleLength)
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, validationError("description is required")
	}

	if !input.Category.Valid() {
		return nil, validationError("category must be one of assignment, presentation, project, other")
	}

	if input.BudgetMin == nil || input.BudgetMax == nil {
		return nil, validationError("budget_min and budget_max are required")
	}
	if *input.BudgetMin < 0 || *input.BudgetMax < 0 {
		return nil, validationError("budget cannot be negative")
	}
	if *input.BudgetMin > *input.BudgetMax {
		return nil, validationError("budget_min cannot exceed budget_max")
	}

	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}
	if !deadline.After(s.now()) {
		return nil, validationError("deadline must be in the future")
	}

	referenceURL := strings.TrimSpace(input.ReferenceURL)
	if referenceURL != "" && !isWebURL(referenceURL) {
		return nil, validationError("reference_url must be an http or https URL")
	}

	if _, err := s.userRepo.FindByID(ctx, input.PosterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find poster: %w", err)
	}

	task := &models.Task{
		Title:        title,
		Description:  description,
		Category:     input.Category,
		BudgetMin:    *input.BudgetMin,
		BudgetMax:    *input.BudgetMax,
		Deadline:     deadline.UTC(),
		PosterID:     input.PosterID,
		Status:       models.TaskStatusOpen,
		ReferenceURL: referenceURL,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// ListTasks returns tasks matching the filters, newest first
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, validationError("unknown status %q", *input.Status)
	}
	if input.Category != nil && !input.Category.Valid() {
		return nil, 0, validationError("unknown category %q", *input.Category)
	}

	filter := repository.TaskFilter{
		Status:     input.Status,
		Category:   input.Category,
		PosterID:   input.PosterID,
		Pagination: utils.NewPaginationParams(input.Page, input.PageSize),
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with its poster
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	return loadTask(ctx, s.taskRepo, taskID, "Poster")
}

// DeleteTask deletes an OPEN task if the actor posted it
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if task.PosterID != actorID {
		return ErrNotTaskPoster
	}
	if task.Status != models.TaskStatusOpen {
		return ErrTaskNotDeletable
	}

	if err := s.taskRepo.DeleteOpen(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return ErrTaskNotDeletable
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// DraftTask uses AI to suggest a task posting from free text
func (s *TaskService) DraftTask(ctx context.Context, text string) (*TaskDraft, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("text is required")
	}
	if len(text) > constants.MaxAIDraftTextLength {
		return nil, validationError("text must be at most %d characters", constants.MaxAIDraftTextLength)
	}

	draft, err := s.aiService.DraftTaskFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to draft task: %w", err)
	}

	return s.normalizeDraft(draft)
}

// normalizeDraft drops the parts of an AI draft CreateTask would reject.
func (s *TaskService) normalizeDraft(draft *TaskDraft) (*TaskDraft, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, ErrAINoDraft
	}
	if len(draft.Title) > constants.MaxTitleLength {
		draft.Title = draft.Title[:constants.MaxTitleLength]
	}

	if !models.TaskCategory(draft.Category).Valid() {
		draft.Category = string(models.CategoryOther)
	}

	if draft.BudgetMin != nil && *draft.BudgetMin < 0 {
		draft.BudgetMin = nil
	}
	if draft.BudgetMax != nil && *draft.BudgetMax < 0 {
		draft.BudgetMax = nil
	}
	if draft.BudgetMin != nil && draft.BudgetMax != nil && *draft.BudgetMin > *draft.BudgetMax {
		draft.BudgetMin, draft.BudgetMax = draft.BudgetMax, draft.BudgetMin
	}

	if draft.Deadline != nil && !draft.Deadline.After(s.now()) {
		draft.Deadline = nil
	}

	return draft, nil
}

// loadTask maps a missing task to ErrTaskNotFound.
func loadTask(ctx context.Context, taskRepo repository.TaskRepository, taskID string, preload ...string) (*models.Task, error) {
	task, err := taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func parseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, validationError("deadline is required")
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationError("deadline must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

func isWebURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
