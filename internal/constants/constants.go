package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "campus_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Validation limits
const (
	MaxTitleLength       = 255
	MaxProposalLength    = 5000
	MaxMessageLength     = 2000
	MaxAIDraftTextLength = 4000
	MinStudyYear         = 1
	MaxStudyYear         = 4
)

// NotificationTimeout bounds a single asynchronous notification dispatch.
const NotificationTimeout = 5 * time.Second

// EventStreamBuffer is the per-subscriber buffer of the task event hub.
const EventStreamBuffer = 16

// EventStreamHeartbeat is how often an idle event stream sends a keep-alive.
const EventStreamHeartbeat = 25 * time.Second
