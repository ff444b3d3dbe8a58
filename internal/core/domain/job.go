package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatKind tells private deliveries apart from group broadcasts.
type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group" // groups and supergroups
)

// Job is one pending caption-normalization-and-redelivery task.
// It is created on receipt of a video, owned by exactly one sender queue,
// and discarded once it reaches an Outcome. Jobs are never retried.
type Job struct {
	ID          uuid.UUID
	SenderID    int64
	ChatID      int64
	ChatKind    ChatKind
	MessageID   int    // incoming message, used as the reply anchor
	MediaHandle string // Telegram FileID, passed through untouched
	RawCaption  string // empty means the video arrived without a caption
	Seq         uint64 // enqueue order, assigned by the queue
	EnqueuedAt  time.Time
}

// NewJob creates a job with a fresh correlation ID.
func NewJob(senderID, chatID int64, kind ChatKind, messageID int, mediaHandle, caption string) *Job {
	return &Job{
		ID:          uuid.New(),
		SenderID:    senderID,
		ChatID:      chatID,
		ChatKind:    kind,
		MessageID:   messageID,
		MediaHandle: mediaHandle,
		RawCaption:  caption,
	}
}

// HasCaption reports whether the job carries caption text.
func (j *Job) HasCaption() bool {
	return j.RawCaption != ""
}

// IsGroup reports whether the job is delivered to a group chat.
func (j *Job) IsGroup() bool {
	return j.ChatKind == ChatGroup
}
