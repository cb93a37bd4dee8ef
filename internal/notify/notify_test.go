package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/campus-works/internal/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type recordingInbox struct {
	mu    sync.Mutex
	saved []models.Notification
	err   error
}

func (i *recordingInbox) Create(_ context.Context, n *models.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.saved = append(i.saved, *n)
	return nil
}

func TestHub_PublishReachesTaskSubscribers(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("task-1")
	defer cancel()
	other, cancelOther := hub.Subscribe("task-2")
	defer cancelOther()

	require.NoError(t, hub.Publish(context.Background(), "task-1", Event{Kind: KindMessage, TaskID: "task-1"}))

	select {
	case ev := <-events:
		assert.Equal(t, KindMessage, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	assert.Len(t, other, 0)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("task-1")
	assert.Equal(t, 1, hub.Subscribers("task-1"))

	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers("task-1"))
	assert.NoError(t, hub.Publish(context.Background(), "task-1", Event{}))
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("task-1")
	defer cancel()

	for i := 0; i < 100; i++ {
		require.NoError(t, hub.Publish(context.Background(), "task-1", Event{}))
	}
}

func TestMultiPublisher_JoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("down")}

	err := MultiPublisher{ok, failing}.Publish(context.Background(), "task-1", Event{Kind: KindComment})

	assert.ErrorContains(t, err, "down")
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
}

func TestDispatcher_NotifyStoresAndPublishes(t *testing.T) {
	inbox := &recordingInbox{}
	pub := &recordingPublisher{}
	d := NewDispatcher(inbox, pub)

	d.Notify("bidder", Event{Kind: KindProposalAccepted, TaskID: "task-1", Message: "Your proposal was accepted"})
	d.Wait()

	require.Len(t, inbox.saved, 1)
	assert.Equal(t, "bidder", inbox.saved[0].UserID)
	assert.Equal(t, "task-1", inbox.saved[0].TaskID)
	assert.False(t, inbox.saved[0].Read)
	assert.False(t, inbox.saved[0].CreatedAt.IsZero())

	require.Len(t, pub.events, 1)
	assert.Equal(t, "bidder", pub.events[0].UserID)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	inbox := &recordingInbox{err: errors.New("db gone")}
	pub := &recordingPublisher{err: errors.New("redis gone")}
	d := NewDispatcher(inbox, pub)

	d.Notify("bidder", Event{Kind: KindPaymentCompleted, TaskID: "task-1"})
	d.Broadcast(Event{Kind: KindMessage, TaskID: "task-1"})
	d.Wait()

	assert.Empty(t, inbox.saved)
	assert.Len(t, pub.events, 2)
}

func TestDispatcher_BroadcastSkipsInbox(t *testing.T) {
	inbox := &recordingInbox{}
	d := NewDispatcher(inbox, nil)

	d.Broadcast(Event{Kind: KindMessage, TaskID: "task-1"})
	d.Wait()

	assert.Empty(t, inbox.saved)
}

type fakeRedisConn struct {
	mu       sync.Mutex
	commands [][]interface{}
}

func (c *fakeRedisConn) Close() error { return nil }
func (c *fakeRedisConn) Err() error   { return nil }
func (c *fakeRedisConn) Send(string, ...interface{}) error {
	return nil
}
func (c *fakeRedisConn) Flush() error                  { return nil }
func (c *fakeRedisConn) Receive() (interface{}, error) { return nil, nil }

func (c *fakeRedisConn) Do(cmd string, args ...interface{}) (interface{}, error) {
	if cmd == "" {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, append([]interface{}{cmd}, args...))
	return int64(1), nil
}

func TestRedisPublisher_Publish(t *testing.T) {
	conn := &fakeRedisConn{}
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) { return conn, nil },
	}
	pub := NewRedisPublisher(pool)
	defer pub.Close()

	err := pub.Publish(context.Background(), "task-1", Event{Kind: KindWorkSubmitted, TaskID: "task-1", Message: "new submission"})
	require.NoError(t, err)

	require.Len(t, conn.commands, 1)
	cmd := conn.commands[0]
	assert.Equal(t, "PUBLISH", cmd[0])
	assert.Equal(t, "task:task-1", cmd[1])

	var ev Event
	require.NoError(t, json.Unmarshal(cmd[2].([]byte), &ev))
	assert.Equal(t, KindWorkSubmitted, ev.Kind)
	assert.Equal(t, "new submission", ev.Message)
}

func TestEvent_VisibleTo(t *testing.T) {
	broadcast := Event{Kind: KindMessage, TaskID: "task-1"}
	targeted := Event{Kind: KindProposalRejected, TaskID: "task-1", UserID: "bob"}

	assert.True(t, broadcast.VisibleTo("alice"))
	assert.True(t, targeted.VisibleTo("bob"))
	assert.False(t, targeted.VisibleTo("alice"))
}
