package slack

import (
	"errors"

	log15 "github.com/inconshreveable/log15/v3"

	"SupsBrief/db"
	"SupsBrief/standup"
	"SupsBrief/utils"
)

var ErrNoToken = errors.New("team has no access token")

// Factory builds per-team clients from the stored, encrypted bot token.
type Factory struct {
	cipher *utils.Cipher
	apiURL string
	opts   []Option
	log    log15.Logger
}

func NewFactory(cipher *utils.Cipher, apiURL string, logger log15.Logger, opts ...Option) *Factory {
	return &Factory{cipher: cipher, apiURL: apiURL, opts: opts, log: logger.New("module", "slack")}
}

func (f *Factory) NotifierFor(team *db.Team) (standup.Notifier, error) {
	token, err := f.Token(team)
	if err != nil {
		return nil, err
	}
	return NewClient(token, f.apiURL, team.BotUserID, f.log.New("team", team.SlackTeamID), f.opts...), nil
}

// Token returns the plaintext bot token. Tokens stored before encryption was
// enabled are returned as-is.
func (f *Factory) Token(team *db.Team) (string, error) {
	if team.AccessToken == "" {
		return "", ErrNoToken
	}
	if f.cipher == nil {
		return team.AccessToken, nil
	}
	token, err := f.cipher.Decrypt(team.AccessToken)
	if err != nil {
		f.log.Warn("stored token is not encrypted, using raw value", "team", team.SlackTeamID, "err", err)
		return team.AccessToken, nil
	}
	return token, nil
}

// Seal encrypts a freshly issued token for storage.
func (f *Factory) Seal(token string) (string, error) {
	if f.cipher == nil {
		return token, nil
	}
	return f.cipher.Encrypt(token)
}
