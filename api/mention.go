package api

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"SupsBrief/db"
	"SupsBrief/standup"
)

var mentionPattern = regexp.MustCompile(`<@[A-Za-z0-9]+>`)

// MentionCommand strips bot mentions and normalizes what is left.
func MentionCommand(text string) string {
	return strings.ToLower(strings.TrimSpace(mentionPattern.ReplaceAllString(text, "")))
}

// Mention handles "@SUPS <command>" in a channel and replies in that channel.
func (b *Bot) Mention(ctx context.Context, team *db.Team, userID, channel, text string) error {
	n, err := b.slack.NotifierFor(team)
	if err != nil {
		return err
	}

	switch cmd := MentionCommand(text); {
	case cmd == "" || cmd == "status":
		return b.channelStatus(ctx, n, team, channel)
	case cmd == "help":
		b.reply(ctx, n, team, channel, mentionHelpMessage)
	case strings.HasPrefix(cmd, "config"):
		b.reply(ctx, n, team, channel, settingsSummary(team))
	case cmd == "demo reminder" || cmd == "demo reminders":
		return b.demoReminder(ctx, n, team, channel)
	case cmd == "demo standup" || cmd == "demo standups":
		return b.demoStandups(ctx, n, team, channel)
	default:
		b.log.Debug("unknown mention command", "team", team.SlackTeamID, "user", userID, "command", cmd)
		b.reply(ctx, n, team, channel, unknownMention)
	}
	return nil
}

func (b *Bot) channelStatus(ctx context.Context, n standup.Notifier, team *db.Team, channel string) error {
	date := b.agg.Today(team)
	status, err := b.tracker.SubmissionStatus(ctx, team.ID, date)
	if err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return fmt.Errorf("channelStatus: %w", err)
	}

	roster := []string{}
	if team.HasChannel() {
		members, err := n.ListMembers(ctx, team.ChannelID)
		if err != nil {
			b.log.Warn("failed to fetch roster for status", "team", team.SlackTeamID, "err", err)
		} else {
			roster = members
		}
	}

	b.reply(ctx, n, team, channel, standup.StatusReport(date, status, standup.Missing(roster, status)))
	return nil
}

func (b *Bot) demoReminder(ctx context.Context, n standup.Notifier, team *db.Team, channel string) error {
	if !team.HasChannel() {
		b.reply(ctx, n, team, channel, noChannelMention)
		return nil
	}
	b.reply(ctx, n, team, channel, demoReminderStart)

	sent, targets, err := b.runner.SendReminders(ctx, team, b.agg.Today(team), n, standup.DemoPrefix)
	if err != nil {
		b.reply(ctx, n, team, channel, fmt.Sprintf(rosterFailure, err))
		return err
	}
	if len(targets) == 0 {
		b.reply(ctx, n, team, channel, demoReminderNone)
		return nil
	}
	b.reply(ctx, n, team, channel, fmt.Sprintf(demoReminderDone, sent, standup.MentionList(targets)))
	return nil
}

func (b *Bot) demoStandups(ctx context.Context, n standup.Notifier, team *db.Team, channel string) error {
	if !team.HasChannel() {
		b.reply(ctx, n, team, channel, noChannelMention)
		return nil
	}
	b.reply(ctx, n, team, channel, demoStandupStart)

	date := b.agg.Today(team)
	subs, err := b.agg.ListForDate(ctx, team.ID, date)
	if err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return err
	}
	if len(subs) == 0 {
		b.reply(ctx, n, team, channel, demoStandupEmpty)
		return nil
	}

	result, err := b.poster.PostDemoSummary(ctx, team, date, n)
	if err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return err
	}
	b.reply(ctx, n, team, channel, fmt.Sprintf(demoStandupDone, result.Posted, team.ChannelID))
	return nil
}
