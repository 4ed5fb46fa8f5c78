package api

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"SupsBrief/db"
	"SupsBrief/standup"
	"SupsBrief/utils"
)

const (
	channelClause  = `config\s+<#[CG][A-Z0-9]+(?:\|[^>]*)?>`
	reminderClause = `reminder\s+time\s+\d{1,2}:\d{2}`
	deadlineClause = `deadline\s+time\s+\d{1,2}:\d{2}`
	zoneClause     = `timezone\s+[A-Za-z][A-Za-z0-9_+\-]*(?:/[A-Za-z0-9_+\-]+)*`
	configClause   = `(?:` + channelClause + `|` + reminderClause + `|` + deadlineClause + `|` + zoneClause + `)`
)

var (
	// A settings message consists of config clauses only; anything else is a
	// stand-up.
	configCommandPattern = regexp.MustCompile(`(?i)^` + configClause + `(?:[\s,]+` + configClause + `)*$`)

	channelPattern  = regexp.MustCompile(`(?i)config\s+<#([CG][A-Z0-9]+)(?:\|[^>]*)?>`)
	reminderPattern = regexp.MustCompile(`(?i)reminder\s+time\s+(\d{1,2}:\d{2})`)
	deadlinePattern = regexp.MustCompile(`(?i)deadline\s+time\s+(\d{1,2}:\d{2})`)
	zonePattern     = regexp.MustCompile(`(?i)timezone\s+([A-Za-z][A-Za-z0-9_+\-]*(?:/[A-Za-z0-9_+\-]+)*)`)
)

// DirectMessage handles a DM from userID in the DM channel. Settings commands
// and user commands get a reply; anything else is recorded as a stand-up.
func (b *Bot) DirectMessage(ctx context.Context, team *db.Team, userID, channel, text string) error {
	n, err := b.slack.NotifierFor(team)
	if err != nil {
		return err
	}

	if isConfigCommand(text) {
		b.handleCombinedConfig(ctx, n, team, channel, text)
		return nil
	}

	cmd := standup.ParseCommand(text)
	switch cmd.Kind {
	case standup.CommandSkip:
		return b.handleSkip(ctx, n, team, userID, channel)
	case standup.CommandVacation:
		return b.handleVacation(ctx, n, team, userID, channel, cmd.Date)
	case standup.CommandDone:
		b.reply(ctx, n, team, channel, fmt.Sprintf(doneReply, channelLabel(team), utils.FormatClock(team.DeadlineTime)))
		return nil
	case standup.CommandHelp:
		b.reply(ctx, n, team, channel, dmHelpMessage)
		return nil
	case standup.CommandStatus:
		return b.handleOwnStatus(ctx, n, team, userID, channel)
	}
	return b.handleSubmission(ctx, n, team, userID, channel, cmd.Text)
}

func (b *Bot) handleSubmission(ctx context.Context, n standup.Notifier, team *db.Team, userID, channel, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	late := standup.IsLate(b.now(), team.DeadlineTime, team.Timezone)

	name := ""
	if profile, err := n.UserInfo(ctx, userID); err != nil {
		b.log.Warn("could not fetch user name", "team", team.SlackTeamID, "user", userID, "err", err)
	} else {
		name = profile.Name
	}

	sub, err := b.agg.RecordSubmission(ctx, team, standup.SubmissionInput{
		UserID:   userID,
		UserName: name,
		Content:  text,
		IsLate:   late,
	})
	if err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return fmt.Errorf("handleSubmission: %w", err)
	}
	b.log.Info("stand-up recorded", "team", team.SlackTeamID, "user", userID, "date", sub.Date, "late", late)

	ack := submissionAck
	if late {
		ack = fmt.Sprintf(lateAck, utils.FormatClock(team.DeadlineTime))
	}
	b.reply(ctx, n, team, channel, ack)
	return nil
}

func (b *Bot) handleSkip(ctx context.Context, n standup.Notifier, team *db.Team, userID, channel string) error {
	if err := b.store.SetMemberSkip(ctx, team.ID, userID, b.agg.Today(team)); err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return fmt.Errorf("handleSkip: %w", err)
	}
	b.reply(ctx, n, team, channel, skipReply)
	return nil
}

func (b *Bot) handleVacation(ctx context.Context, n standup.Notifier, team *db.Team, userID, channel, until string) error {
	if _, err := time.Parse(utils.DateLayout, until); err != nil {
		b.reply(ctx, n, team, channel, badDateReply)
		return nil
	}
	if until < b.agg.Today(team) {
		b.reply(ctx, n, team, channel, pastDateReply)
		return nil
	}

	if err := b.store.SetMemberLeave(ctx, team.ID, userID, until); err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return fmt.Errorf("handleVacation: %w", err)
	}
	b.reply(ctx, n, team, channel, fmt.Sprintf(vacationReply, utils.FormatDate(until)))
	return nil
}

func (b *Bot) handleOwnStatus(ctx context.Context, n standup.Notifier, team *db.Team, userID, channel string) error {
	date := b.agg.Today(team)
	subs, err := b.agg.ListForUserAndDate(ctx, team.ID, userID, date)
	if err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return fmt.Errorf("handleOwnStatus: %w", err)
	}
	if len(subs) == 0 {
		b.reply(ctx, n, team, channel, noStatusReply)
		return nil
	}

	merged, err := b.agg.MergeForUser(ctx, team.ID, userID, date)
	if err != nil {
		b.reply(ctx, n, team, channel, genericFailure)
		return fmt.Errorf("handleOwnStatus: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "📝 You've sent %d update(s) today", len(subs))
	if subs[0].IsLate {
		msg.WriteString(" _(late)_")
	}
	msg.WriteString(".")
	if subs[len(subs)-1].Posted {
		msg.WriteString(" They've been posted to the channel.")
	} else {
		fmt.Fprintf(&msg, " They'll be posted at %s.", utils.FormatClock(team.DeadlineTime))
	}
	msg.WriteString("\n\n" + merged)

	b.reply(ctx, n, team, channel, msg.String())
	return nil
}

func isConfigCommand(text string) bool {
	return configCommandPattern.MatchString(strings.TrimSpace(text))
}

func (b *Bot) handleCombinedConfig(ctx context.Context, n standup.Notifier, team *db.Team, channel, text string) {
	var updates, errors []string

	b.handleChannelConfig(ctx, team, text, &updates, &errors)
	b.handleClockConfig(ctx, team, text, reminderPattern, db.ReminderTimeColumn, &updates, &errors)
	b.handleClockConfig(ctx, team, text, deadlinePattern, db.DeadlineTimeColumn, &updates, &errors)
	b.handleTimezoneConfig(ctx, team, text, &updates, &errors)

	b.reply(ctx, n, team, channel, combinedConfigResponse(updates, errors))
}

func (b *Bot) handleChannelConfig(ctx context.Context, team *db.Team, text string, updates, errors *[]string) {
	channelID := extractValue(channelPattern, text)
	if channelID == "" {
		return
	}
	if err := b.store.UpdateChannel(ctx, team.ID, channelID); err != nil {
		*errors = append(*errors, "Couldn't update the channel. Please try again.")
		b.log.Error("failed to update channel", "team", team.SlackTeamID, "err", err)
		return
	}
	team.ChannelID = channelID
	*updates = append(*updates, fmt.Sprintf("stand-up channel set to <#%s>", channelID))
	b.log.Info("channel updated", "team", team.SlackTeamID, "channel", channelID)
}

func (b *Bot) handleClockConfig(ctx context.Context, team *db.Team, text string, pattern *regexp.Regexp, column db.TimeColumn, updates, errors *[]string) {
	value := extractValue(pattern, text)
	if value == "" {
		return
	}

	label := "reminder time"
	update := b.store.UpdateReminderTime
	if column == db.DeadlineTimeColumn {
		label = "deadline time"
		update = b.store.UpdateDeadlineTime
	}

	if strings.Index(value, ":") == 1 {
		value = "0" + value
	}
	clock, err := utils.NormalizeClock(value)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("That time format looks a bit off. Please use the 24-hour format, like `%s 17:00`.", label))
		b.log.Info("invalid clock value", "team", team.SlackTeamID, "setting", label, "value", value)
		return
	}
	if err := update(ctx, team.ID, clock); err != nil {
		*errors = append(*errors, fmt.Sprintf("Failed to set the %s.", label))
		b.log.Error("failed to update clock setting", "team", team.SlackTeamID, "setting", label, "err", err)
		return
	}

	if column == db.DeadlineTimeColumn {
		team.DeadlineTime = clock
	} else {
		team.ReminderTime = clock
	}
	*updates = append(*updates, fmt.Sprintf("%s set to %s", label, utils.FormatClock(clock)))
	b.log.Info("clock setting updated", "team", team.SlackTeamID, "setting", label, "value", clock)
}

func (b *Bot) handleTimezoneConfig(ctx context.Context, team *db.Team, text string, updates, errors *[]string) {
	zone := extractValue(zonePattern, text)
	if zone == "" {
		return
	}
	if _, err := utils.LoadLocation(zone); err != nil {
		*errors = append(*errors, fmt.Sprintf("Hmm, '%s' doesn't seem to be a valid timezone. Try something like `timezone Asia/Kolkata`.", zone))
		b.log.Info("invalid timezone", "team", team.SlackTeamID, "value", zone)
		return
	}
	if err := b.store.UpdateTimezone(ctx, team.ID, zone); err != nil {
		*errors = append(*errors, "Couldn't update your team's timezone.")
		b.log.Error("failed to update timezone", "team", team.SlackTeamID, "err", err)
		return
	}
	team.Timezone = zone
	*updates = append(*updates, fmt.Sprintf("timezone set to %s", zone))
	b.log.Info("timezone updated", "team", team.SlackTeamID, "value", zone)
}

func extractValue(pattern *regexp.Regexp, text string) string {
	if m := pattern.FindStringSubmatch(text); len(m) >= 2 {
		return m[1]
	}
	return ""
}

func combinedConfigResponse(updates, errors []string) string {
	var response strings.Builder

	if len(updates) > 0 {
		response.WriteString("✅ *Success! Here's what I've updated for you:*\n")
		for _, u := range updates {
			response.WriteString("• " + u + "\n")
		}
	}

	if len(errors) > 0 {
		if len(updates) > 0 {
			response.WriteString("\n")
		}
		response.WriteString("⚠️ *Just a heads-up, I ran into a couple of snags:*\n")
		for _, e := range errors {
			response.WriteString("• " + e + "\n")
		}
	}

	if response.Len() == 0 {
		return noConfigFound
	}
	return strings.TrimRight(response.String(), "\n")
}

func channelLabel(team *db.Team) string {
	if !team.HasChannel() {
		return unconfiguredChannel
	}
	return "<#" + team.ChannelID + ">"
}

// settingsSummary renders the team's current configuration.
func settingsSummary(team *db.Team) string {
	return fmt.Sprintf("%s\n• Channel: %s\n• Reminder: %s\n• Deadline: %s\n• Timezone: %s",
		configSummaryTitle,
		channelLabel(team),
		utils.FormatClock(team.ReminderTime),
		utils.FormatClock(team.DeadlineTime),
		team.Timezone,
	)
}
