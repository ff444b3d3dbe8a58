package ports

import (
	"CaptionRelay/internal/core/domain"
	"context"
)

// AccessPolicy decides who may use the relay.
// The router consults it before anything is enqueued.
type AccessPolicy interface {
	// IsAuthorized reports whether the sender is on the allow-list.
	IsAuthorized(senderID int64) bool

	// IsFromDesignatedChannel reports whether a group message comes from
	// the one group the bot works in. Private chats are never "designated".
	IsFromDesignatedChannel(chatID int64, kind domain.ChatKind) bool
}

// AllowListRepository is an optional persistent source of authorized IDs,
// read once at startup.
type AllowListRepository interface {
	ListAuthorizedIDs(ctx context.Context) ([]int64, error)
}

// RateLimiter throttles video submissions per sender.
type RateLimiter interface {
	Allow(ctx context.Context, senderID int64) (bool, error)
}
