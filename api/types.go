package api

import (
	"context"
	"time"

	log15 "github.com/inconshreveable/log15/v3"

	"SupsBrief/db"
	slackbot "SupsBrief/internal/slack"
	"SupsBrief/scheduler"
	"SupsBrief/standup"
)

// Store is the part of the record store the inbound surface writes to.
type Store interface {
	SaveTeam(ctx context.Context, team *db.Team) error
	GetTeam(ctx context.Context, slackTeamID string) (*db.Team, error)
	UpdateChannel(ctx context.Context, teamID uint, channelID string) error
	UpdateReminderTime(ctx context.Context, teamID uint, clock string) error
	UpdateDeadlineTime(ctx context.Context, teamID uint, clock string) error
	UpdateTimezone(ctx context.Context, teamID uint, zone string) error
	DeleteTeam(ctx context.Context, slackTeamID string) (bool, error)
	SetMemberSkip(ctx context.Context, teamID uint, userID, date string) error
	SetMemberLeave(ctx context.Context, teamID uint, userID, until string) error
}

// Credentials hands out per-team notifiers and seals new bot tokens.
type Credentials interface {
	standup.NotifierSource
	Seal(token string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store      Store
	Aggregator *standup.Aggregator
	Tracker    *standup.Tracker
	Poster     *standup.Poster
	Runner     *scheduler.Runner
	Slack      Credentials
	Now        func() time.Time
	Logger     log15.Logger
}

type ServerConfig struct {
	SigningSecret      string
	ReminderCheckToken string
	Installer          slackbot.Installer
	Health             Pinger
}

type checkResponse struct {
	Status   string   `json:"status"`
	Reminded int      `json:"reminded"`
	Posted   int      `json:"posted"`
	Errors   []string `json:"errors,omitempty"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
