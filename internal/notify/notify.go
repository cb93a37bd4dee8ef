// Package notify delivers lifecycle events to interested users. Delivery is
// best-effort: a failed publish is logged and never reported to the caller
// that made the state change.
package notify

import (
	"context"
	"errors"
	"time"
)

// Kind names a lifecycle event.
type Kind string

const (
	KindProposalSubmitted Kind = "proposal_submitted"
	KindProposalAccepted  Kind = "proposal_accepted"
	KindProposalRejected  Kind = "proposal_rejected"
	KindWorkSubmitted     Kind = "work_submitted"
	KindSubmissionReview  Kind = "submission_reviewed"
	KindPaymentCompleted  Kind = "payment_completed"
	KindMessage           Kind = "message"
	KindComment           Kind = "comment"
)

// Event is published on a task channel.
type Event struct {
	Kind      Kind        `json:"kind"`
	TaskID    string      `json:"task_id"`
	UserID    string      `json:"user_id,omitempty"`
	Message   string      `json:"message"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// VisibleTo reports whether userID may see the event on a shared task
// channel. Events addressed to one user are hidden from everyone else.
func (e Event) VisibleTo(userID string) bool {
	return e.UserID == "" || e.UserID == userID
}

// Publisher pushes an event onto a task channel.
type Publisher interface {
	Publish(ctx context.Context, taskID string, event Event) error
}

// MultiPublisher publishes to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, taskID string, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, taskID, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
