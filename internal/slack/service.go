package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/jpillora/backoff"
	slackapi "github.com/slack-go/slack"

	"SupsBrief/standup"
)

const (
	defaultMaxRetries = 3
	membersPageSize   = 200
)

// Client is the slack-go backed Notifier for one workspace.
type Client struct {
	api        *slackapi.Client
	botUserID  string
	maxRetries int
	minWait    time.Duration
	log        log15.Logger
}

type Option func(*Client)

// WithRetry bounds how often a rate-limited call is retried and the minimum
// wait between attempts.
func WithRetry(maxRetries int, minWait time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.minWait = minWait
	}
}

// NewClient builds a client for token. apiURL overrides the Slack Web API
// base URL when non-empty. botUserID is excluded from rosters.
func NewClient(token, apiURL, botUserID string, logger log15.Logger, opts ...Option) *Client {
	var apiOpts []slackapi.Option
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		apiOpts = append(apiOpts, slackapi.OptionAPIURL(apiURL))
	}

	c := &Client{
		api:        slackapi.New(token, apiOpts...),
		botUserID:  botUserID,
		maxRetries: defaultMaxRetries,
		minWait:    time.Second,
		log:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ standup.Notifier = (*Client)(nil)

func (c *Client) PostMessage(ctx context.Context, channel, text, threadTS string) (string, error) {
	opts := []slackapi.MsgOption{slackapi.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slackapi.MsgOptionTS(threadTS))
	}

	var ts string
	err := c.withRetry(ctx, "chat.postMessage", func() error {
		var err error
		_, ts, err = c.api.PostMessageContext(ctx, channel, opts...)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("PostMessage: failed to post to %s: %w", channel, err)
	}
	return ts, nil
}

// ListMembers pages through the channel and keeps human user ids only.
func (c *Client) ListMembers(ctx context.Context, channel string) ([]string, error) {
	members := []string{}
	cursor := ""
	for {
		params := &slackapi.GetUsersInConversationParameters{
			ChannelID: channel,
			Cursor:    cursor,
			Limit:     membersPageSize,
		}

		var page []string
		var next string
		err := c.withRetry(ctx, "conversations.members", func() error {
			var err error
			page, next, err = c.api.GetUsersInConversationContext(ctx, params)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("ListMembers: failed to list %s: %w", channel, err)
		}

		for _, id := range page {
			if IsHumanID(id) && id != c.botUserID {
				members = append(members, id)
			}
		}
		if next == "" {
			return members, nil
		}
		cursor = next
	}
}

func (c *Client) UserInfo(ctx context.Context, userID string) (standup.UserProfile, error) {
	var user *slackapi.User
	err := c.withRetry(ctx, "users.info", func() error {
		var err error
		user, err = c.api.GetUserInfoContext(ctx, userID)
		return err
	})
	if err != nil {
		return standup.UserProfile{}, fmt.Errorf("UserInfo: failed to fetch %s: %w", userID, err)
	}

	name := user.RealName
	if name == "" {
		name = user.Profile.DisplayName
	}
	if name == "" {
		name = user.Name
	}
	return standup.UserProfile{Name: name, Timezone: user.TZ}, nil
}

// IsHumanID reports whether id looks like a person (U or W prefix) rather
// than a bot or an app.
func IsHumanID(id string) bool {
	return strings.HasPrefix(id, "U") || strings.HasPrefix(id, "W")
}

func (c *Client) withRetry(ctx context.Context, method string, call func() error) error {
	b := &backoff.Backoff{Min: c.minWait, Max: 30 * c.minWait, Factor: 2, Jitter: true}
	for {
		err := call()

		var limited *slackapi.RateLimitedError
		if !errors.As(err, &limited) || int(b.Attempt()) >= c.maxRetries {
			return err
		}

		wait := b.Duration()
		if limited.RetryAfter > wait {
			wait = limited.RetryAfter
		}
		c.log.Warn("slack rate limited", "method", method, "wait", wait, "attempt", int(b.Attempt()))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
