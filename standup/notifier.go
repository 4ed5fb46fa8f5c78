package standup

import (
	"context"

	"SupsBrief/db"
)

// Notifier is the outbound chat capability handed to the engine for one team.
type Notifier interface {
	// PostMessage sends text to a channel or user. A non-empty threadTS posts
	// a threaded reply. It returns the timestamp handle of the new message.
	PostMessage(ctx context.Context, channel, text, threadTS string) (string, error)
	// ListMembers returns the human members of a channel.
	ListMembers(ctx context.Context, channel string) ([]string, error)
	UserInfo(ctx context.Context, userID string) (UserProfile, error)
}

type UserProfile struct {
	Name     string
	Timezone string
}

// NotifierSource builds a Notifier bound to a team's credentials.
type NotifierSource interface {
	NotifierFor(team *db.Team) (Notifier, error)
}
