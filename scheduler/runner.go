package scheduler

import (
	"context"
	"fmt"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"go.uber.org/multierr"

	"SupsBrief/db"
	"SupsBrief/standup"
)

const (
	ReminderMessage = "Hey! 👋 Time for your stand-up. Just reply here with what you worked on today! 📝"

	// Long enough to outlive the tick minute in every zone for the whole day.
	claimTTL = 26 * time.Hour
)

type AwayStore interface {
	AwayMembers(ctx context.Context, teamID uint, date string) ([]string, error)
}

// TickResult counts teams reminded and teams posted to during one tick.
type TickResult struct {
	Reminded int `json:"reminded"`
	Posted   int `json:"posted"`
}

// Runner executes the polling tick: reminders first, then deadline posts.
type Runner struct {
	sched     *Scheduler
	tracker   *standup.Tracker
	poster    *standup.Poster
	away      AwayStore
	notifiers standup.NotifierSource
	claims    Claimer
	log       log15.Logger
}

func NewRunner(
	sched *Scheduler,
	tracker *standup.Tracker,
	poster *standup.Poster,
	away AwayStore,
	notifiers standup.NotifierSource,
	claims Claimer,
	logger log15.Logger,
) *Runner {
	if claims == nil {
		claims = NoopClaimer{}
	}
	return &Runner{
		sched:     sched,
		tracker:   tracker,
		poster:    poster,
		away:      away,
		notifiers: notifiers,
		claims:    claims,
		log:       logger.New("module", "scheduler"),
	}
}

// CheckReminders runs one tick at now. A failing team never stops the tick;
// all team failures are returned combined.
func (r *Runner) CheckReminders(ctx context.Context, now time.Time) (TickResult, error) {
	var result TickResult
	var errs error

	remind, err := r.sched.DueTeams(ctx, db.ReminderTimeColumn, now)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("reminder query: %w", err))
	}
	for i := range remind {
		team := &remind[i]
		if !team.HasChannel() {
			continue
		}
		ok, err := r.remindTeam(ctx, team, standup.TeamDate(now, team))
		if err != nil {
			r.log.Error("reminder flow failed", "team", team.SlackTeamID, "err", err)
			errs = multierr.Append(errs, fmt.Errorf("team %s reminder: %w", team.SlackTeamID, err))
		}
		if ok {
			result.Reminded++
		}
	}

	deadline, err := r.sched.DueTeams(ctx, db.DeadlineTimeColumn, now)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("deadline query: %w", err))
	}
	for i := range deadline {
		team := &deadline[i]
		if !team.HasChannel() {
			continue
		}
		ok, err := r.postTeam(ctx, team, standup.TeamDate(now, team))
		if err != nil {
			r.log.Error("deadline flow failed", "team", team.SlackTeamID, "err", err)
			errs = multierr.Append(errs, fmt.Errorf("team %s deadline: %w", team.SlackTeamID, err))
		}
		if ok {
			result.Posted++
		}
	}

	return result, errs
}

func (r *Runner) remindTeam(ctx context.Context, team *db.Team, date string) (bool, error) {
	log := r.log.New("team", team.SlackTeamID, "date", date)

	record, err := r.sched.EnsureReminderRecord(ctx, team.ID, date)
	if err != nil {
		return false, err
	}
	if record.Status == db.ReminderSent {
		log.Debug("reminder already sent")
		return false, nil
	}

	claimed, err := r.claims.Claim(ctx, fmt.Sprintf("reminder:%d:%s", team.ID, date), claimTTL)
	if err != nil {
		return false, err
	}
	if !claimed {
		log.Info("reminder claimed by another tick")
		return false, nil
	}

	n, err := r.notifiers.NotifierFor(team)
	if err != nil {
		return false, r.markFailed(ctx, team, date, err)
	}
	sent, targets, err := r.SendReminders(ctx, team, date, n, "")
	if err != nil {
		return false, r.markFailed(ctx, team, date, err)
	}

	if _, err := r.sched.MarkReminderOutcome(ctx, team.ID, date, db.ReminderSent); err != nil {
		return false, err
	}
	log.Info("reminders sent", "sent", sent, "targets", len(targets))
	return true, nil
}

func (r *Runner) markFailed(ctx context.Context, team *db.Team, date string, cause error) error {
	if _, err := r.sched.MarkReminderOutcome(ctx, team.ID, date, db.ReminderFailed); err != nil {
		return multierr.Append(cause, err)
	}
	return cause
}

// SendReminders DMs every roster member who has not submitted for date and
// is not away. Individual send failures are logged and skipped. It returns
// the number delivered and the users targeted.
func (r *Runner) SendReminders(ctx context.Context, team *db.Team, date string, n standup.Notifier, prefix string) (int, []string, error) {
	status, err := r.tracker.SubmissionStatus(ctx, team.ID, date)
	if err != nil {
		return 0, nil, err
	}
	roster, err := n.ListMembers(ctx, team.ChannelID)
	if err != nil {
		return 0, nil, fmt.Errorf("SendReminders: failed to fetch roster: %w", err)
	}
	away, err := r.away.AwayMembers(ctx, team.ID, date)
	if err != nil {
		return 0, nil, err
	}

	awaySet := make(map[string]struct{}, len(away))
	for _, u := range away {
		awaySet[u] = struct{}{}
	}

	targets := []string{}
	for _, u := range standup.Missing(roster, status) {
		if _, ok := awaySet[u]; !ok {
			targets = append(targets, u)
		}
	}

	sent := 0
	for _, userID := range targets {
		if _, err := n.PostMessage(ctx, userID, prefix+ReminderMessage, ""); err != nil {
			r.log.Warn("failed to send reminder", "team", team.SlackTeamID, "user", userID, "err", err)
			continue
		}
		sent++
	}
	return sent, targets, nil
}

func (r *Runner) postTeam(ctx context.Context, team *db.Team, date string) (bool, error) {
	posted, err := r.poster.AlreadyPosted(ctx, team.ID, date)
	if err != nil {
		return false, err
	}
	if posted {
		r.log.Info("summary already posted", "team", team.SlackTeamID, "date", date)
		return false, nil
	}

	claimed, err := r.claims.Claim(ctx, fmt.Sprintf("deadline:%d:%s", team.ID, date), claimTTL)
	if err != nil {
		return false, err
	}
	if !claimed {
		r.log.Info("deadline post claimed by another tick", "team", team.SlackTeamID, "date", date)
		return false, nil
	}

	n, err := r.notifiers.NotifierFor(team)
	if err != nil {
		return false, err
	}
	if _, err := r.poster.PostDailySummary(ctx, team, date, n); err != nil {
		return false, err
	}
	return true, nil
}
