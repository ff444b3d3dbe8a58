package security

import (
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"

	"github.com/rs/zerolog"
)

// allowList implements ports.AccessPolicy with a fixed set of user IDs and
// one working group. It is built once at startup and never mutated, so it
// needs no locking.
type allowList struct {
	users          map[int64]struct{}
	workingGroupID int64
	log            zerolog.Logger
}

// NewAllowList creates the access policy. A zero workingGroupID disables
// group processing entirely.
func NewAllowList(userIDs []int64, workingGroupID int64, baseLogger *zerolog.Logger) ports.AccessPolicy {
	users := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		users[id] = struct{}{}
	}

	log := baseLogger.With().Str("component", "access_policy").Logger()
	log.Info().
		Int("authorized_users", len(users)).
		Int64("working_group_id", workingGroupID).
		Msg("Access policy initialized")

	return &allowList{users: users, workingGroupID: workingGroupID, log: log}
}

// IsAuthorized reports whether the sender is on the allow-list.
func (a *allowList) IsAuthorized(senderID int64) bool {
	_, ok := a.users[senderID]
	return ok
}

// IsFromDesignatedChannel reports whether chatID is the working group.
func (a *allowList) IsFromDesignatedChannel(chatID int64, kind domain.ChatKind) bool {
	if kind != domain.ChatGroup || a.workingGroupID == 0 {
		return false
	}
	return chatID == a.workingGroupID
}

// MergeIDs returns the union of the given ID lists, keeping first-seen order.
func MergeIDs(lists ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
