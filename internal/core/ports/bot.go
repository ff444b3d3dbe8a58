package ports

import (
	"CaptionRelay/internal/core/domain"
	"context"
)

// ParseModeHTML is the only markup the relay emits.
const ParseModeHTML = "HTML"

// --- Bot Message Structures ---

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID           int64
	Text             string
	ParseMode        string // e.g., "HTML" or "" for plain text
	ReplyToMessageID int
}

// SendVideoParams re-sends an already uploaded video by its FileID.
type SendVideoParams struct {
	ChatID            int64
	FileID            string
	Caption           string
	ParseMode         string
	SupportsStreaming bool
}

// --- Bot Client Port (Outbound) ---

// MediaSender is the only transport capability the delivery queue needs.
type MediaSender interface {
	// SendVideo returns the message ID of the sent video. It must not return
	// while the send may still complete: the queue starts the sender's next
	// job as soon as it returns.
	SendVideo(ctx context.Context, params SendVideoParams) (int, error)
}

// BotClientPort defines the interface for *sending* messages.
// This is the "Adapter" our core logic will call.
type BotClientPort interface {
	MediaSender
	// SendMessage returns the message ID of the sent message.
	SendMessage(ctx context.Context, params SendMessageParams) (int, error)
	// DeleteMessage is best-effort; callers usually only log the error.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SetMenuCommands(ctx context.Context) error
}

// --- Bot Handler Port (Inbound) ---

// VideoInfo is the part of a video message the relay cares about.
type VideoInfo struct {
	FileID   string
	FileName string
	MimeType string
}

// BotUpdate represents a simplified, generic update.
type BotUpdate struct {
	MessageID int
	ChatID    int64
	ChatKind  domain.ChatKind
	UserID    int64
	Text      string
	Command   string
	Caption   string
	Video     *VideoInfo
}

// IsPrivate reports whether the update came from a private chat.
func (u *BotUpdate) IsPrivate() bool {
	return u.ChatKind == domain.ChatPrivate
}

// CommandHandler defines the "plugin" interface for handling bot commands.
type CommandHandler interface {
	// Command returns the command string without the slash (e.g., "start")
	Command() string
	// Handle processes the update.
	Handle(ctx context.Context, update *BotUpdate) error
}

// VideoHandler turns an accepted video update into a queued job.
type VideoHandler interface {
	Handle(ctx context.Context, update *BotUpdate) error
}

// TextHandler handles any other private message from an authorized user.
type TextHandler interface {
	Handle(ctx context.Context, update *BotUpdate) error
}
