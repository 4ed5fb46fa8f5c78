package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"gorm.io/gorm"

	"SupsBrief/db"
	slackbot "SupsBrief/internal/slack"
	"SupsBrief/scheduler"
	"SupsBrief/standup"
	"SupsBrief/utils"
)

// Bot reacts to what people send the app: DMs, mentions and install events.
type Bot struct {
	store   Store
	agg     *standup.Aggregator
	tracker *standup.Tracker
	poster  *standup.Poster
	runner  *scheduler.Runner
	slack   Credentials
	now     func() time.Time
	log     log15.Logger
}

func NewBot(d Deps) *Bot {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Bot{
		store:   d.Store,
		agg:     d.Aggregator,
		tracker: d.Tracker,
		poster:  d.Poster,
		runner:  d.Runner,
		slack:   d.Slack,
		now:     now,
		log:     d.Logger.New("module", "bot"),
	}
}

// Installed stores a new or refreshed installation. On first install the
// installer's timezone becomes the team timezone and the installer gets a
// welcome DM.
func (b *Bot) Installed(ctx context.Context, inst *slackbot.Installation) (*db.Team, error) {
	if inst.TeamID == "" || inst.AccessToken == "" {
		return nil, errors.New("Installed: missing team id or bot token")
	}

	_, err := b.store.GetTeam(ctx, inst.TeamID)
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return nil, fmt.Errorf("Installed: failed to look up team %s: %w", inst.TeamID, err)
	}

	sealed, err := b.slack.Seal(inst.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("Installed: failed to encrypt token: %w", err)
	}
	team := &db.Team{
		SlackTeamID: inst.TeamID,
		Name:        inst.TeamName,
		AccessToken: sealed,
		BotUserID:   inst.BotUserID,
		AdminUserID: inst.InstallerID,
	}

	var n standup.Notifier
	if isNew {
		n, err = b.slack.NotifierFor(team)
		if err != nil {
			return nil, err
		}
		team.Timezone = b.installerTimezone(ctx, n, inst.InstallerID)
	}

	if err := b.store.SaveTeam(ctx, team); err != nil {
		return nil, err
	}
	b.log.Info("app installed", "team", team.SlackTeamID, "name", team.Name, "new", isNew)

	if isNew && inst.InstallerID != "" {
		msg := fmt.Sprintf(welcomeMessage, utils.FormatClock(team.ReminderTime), utils.FormatClock(team.DeadlineTime), team.Timezone)
		if _, err := n.PostMessage(ctx, inst.InstallerID, msg, ""); err != nil {
			b.log.Warn("failed to send welcome message", "team", team.SlackTeamID, "user", inst.InstallerID, "err", err)
		}
	}
	return team, nil
}

func (b *Bot) installerTimezone(ctx context.Context, n standup.Notifier, userID string) string {
	if userID == "" {
		return db.DefaultTimezone
	}
	profile, err := n.UserInfo(ctx, userID)
	if err != nil {
		b.log.Warn("could not fetch installer timezone, using default", "user", userID, "err", err)
		return db.DefaultTimezone
	}
	if _, err := utils.LoadLocation(profile.Timezone); err != nil || profile.Timezone == "" {
		return db.DefaultTimezone
	}
	return profile.Timezone
}

// Uninstalled drops the team and everything recorded for it.
func (b *Bot) Uninstalled(ctx context.Context, slackTeamID string) error {
	deleted, err := b.store.DeleteTeam(ctx, slackTeamID)
	if err != nil {
		return err
	}
	b.log.Info("app uninstalled", "team", slackTeamID, "deleted", deleted)
	return nil
}

func (b *Bot) reply(ctx context.Context, n standup.Notifier, team *db.Team, channel, text string) {
	if _, err := n.PostMessage(ctx, channel, text, ""); err != nil {
		b.log.Warn("failed to reply", "team", team.SlackTeamID, "channel", channel, "err", err)
	}
}
