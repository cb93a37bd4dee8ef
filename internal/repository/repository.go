package repository

import (
	"context"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by identity account ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateIdentity refreshes the email and display name from the identity provider
	UpdateIdentity(ctx context.Context, id, email, name string) error

	// UpdateProfile saves the user-editable profile fields
	UpdateProfile(ctx context.Context, user *models.User) error

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// DeleteOpen deletes an OPEN task and its proposals and conversation
	DeleteOpen(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status     *models.TaskStatus
	Category   *models.TaskCategory
	PosterID   *string
	Pagination utils.PaginationParams
}

// ProposalRepository defines the interface for proposal data access
type ProposalRepository interface {
	// CreateForOpenTask inserts a proposal while the task is still OPEN
	CreateForOpenTask(ctx context.Context, proposal *models.Proposal) error

	// FindByID finds a proposal by ID
	FindByID(ctx context.Context, id string) (*models.Proposal, error)

	// ListByTask lists the proposals of a task, oldest first
	ListByTask(ctx context.Context, taskID string) ([]models.Proposal, error)

	// FindAccepted finds the accepted proposal of a task
	FindAccepted(ctx context.Context, taskID string) (*models.Proposal, error)

	// Accept accepts one proposal, rejects its siblings and starts the task.
	// It returns the siblings that were still pending.
	Accept(ctx context.Context, taskID, proposalID string) ([]models.Proposal, error)

	// Reject rejects a pending proposal
	Reject(ctx context.Context, proposalID string) error
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// CreateForAcceptedBidder inserts the single submission of an IN_PROGRESS task
	CreateForAcceptedBidder(ctx context.Context, submission *models.Submission) error

	// FindByID finds a submission by ID
	FindByID(ctx context.Context, id string) (*models.Submission, error)

	// FindByTaskID finds the submission of a task
	FindByTaskID(ctx context.Context, taskID string) (*models.Submission, error)

	// UpdateStatus changes the review status of a submission
	UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus) error
}

// TransactionRepository defines the interface for payment ledger access
type TransactionRepository interface {
	// CreatePending records a payment attempt for a task awaiting payment
	CreatePending(ctx context.Context, txn *models.Transaction) error

	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id string) (*models.Transaction, error)

	// FindByOrderID finds a transaction by the gateway order ID
	FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)

	// ListByTask lists the transactions of a task, newest first
	ListByTask(ctx context.Context, taskID string) ([]models.Transaction, error)

	// Complete marks a pending transaction paid and completes its task
	Complete(ctx context.Context, id, paymentID string) error

	// Fail marks a pending transaction failed
	Fail(ctx context.Context, id string) error
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// Create creates a group together with its members
	Create(ctx context.Context, group *models.Group) error

	// FindByID finds a group by ID with its members
	FindByID(ctx context.Context, id string) (*models.Group, error)

	// ListByUserID lists the groups a user belongs to
	ListByUserID(ctx context.Context, userID string) ([]models.Group, error)

	// IsMember reports whether a user belongs to a group
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// CommentRepository defines the interface for task comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByTask(ctx context.Context, taskID string, params utils.PaginationParams) ([]models.Comment, int64, error)
}

// MessageRepository defines the interface for task chat messages
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByTask(ctx context.Context, taskID string, params utils.PaginationParams) ([]models.Message, int64, error)
}

// NotificationRepository defines the interface for the notification inbox
type NotificationRepository interface {
	// Create stores one notification
	Create(ctx context.Context, notification *models.Notification) error

	// ListByUser lists a user's notifications, newest first
	ListByUser(ctx context.Context, userID string, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error)

	// MarkRead marks one of the user's notifications read
	MarkRead(ctx context.Context, userID, id string) error
}
