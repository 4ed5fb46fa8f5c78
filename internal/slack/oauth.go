package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	slackapi "github.com/slack-go/slack"
)

const (
	OAuthAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	OAuthScope        = "chat:write,users:read,channels:read,groups:read,im:history,im:write,app_mentions:read"
	CallbackPath      = "/slack/oauth/callback"
)

// Installer drives the OAuth v2 install flow.
type Installer interface {
	AuthorizeURL() string
	Exchange(ctx context.Context, code string) (*Installation, error)
}

type OAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewOAuth(clientID, clientSecret, baseURL string) *OAuth {
	return &OAuth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  baseURL + CallbackPath,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (o *OAuth) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", o.clientID)
	q.Set("scope", OAuthScope)
	q.Set("redirect_uri", o.redirectURI)
	return OAuthAuthorizeURL + "?" + q.Encode()
}

func (o *OAuth) Exchange(ctx context.Context, code string) (*Installation, error) {
	resp, err := slackapi.GetOAuthV2ResponseContext(ctx, o.httpClient, o.clientID, o.clientSecret, code, o.redirectURI)
	if err != nil {
		return nil, fmt.Errorf("Exchange: oauth.v2.access failed: %w", err)
	}
	return &Installation{
		TeamID:      resp.Team.ID,
		TeamName:    resp.Team.Name,
		AccessToken: resp.AccessToken,
		BotUserID:   resp.BotUserID,
		InstallerID: resp.AuthedUser.ID,
	}, nil
}
