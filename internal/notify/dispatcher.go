package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/models"
)

// Inbox persists per-user notifications.
type Inbox interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Dispatcher stores a user's notification and publishes the event on the
// task channel in the background. It is called after the state change has
// been committed.
type Dispatcher struct {
	inbox     Inbox
	publisher Publisher
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher. publisher may be nil.
func NewDispatcher(inbox Inbox, publisher Publisher) *Dispatcher {
	return &Dispatcher{
		inbox:     inbox,
		publisher: publisher,
		timeout:   constants.NotificationTimeout,
		now:       time.Now,
	}
}

// Notify delivers event to userID.
func (d *Dispatcher) Notify(userID string, event Event) {
	event.UserID = userID
	d.dispatch(event, true)
}

// Broadcast publishes event on the task channel without storing it.
func (d *Dispatcher) Broadcast(event Event) {
	d.dispatch(event, false)
}

// Wait blocks until every pending delivery finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(event Event, store bool) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = d.now()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notify: delivery of %s on task %s panicked: %v", event.Kind, event.TaskID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if store && d.inbox != nil {
			notification := &models.Notification{
				UserID:    event.UserID,
				TaskID:    event.TaskID,
				Kind:      string(event.Kind),
				Message:   event.Message,
				CreatedAt: event.CreatedAt,
			}
			if err := d.inbox.Create(ctx, notification); err != nil {
				log.Printf("notify: failed to store notification for user %s: %v", event.UserID, err)
			}
		}

		if d.publisher != nil {
			if err := d.publisher.Publish(ctx, event.TaskID, event); err != nil {
				log.Printf("notify: failed to publish %s on task %s: %v", event.Kind, event.TaskID, err)
			}
		}
	}()
}
