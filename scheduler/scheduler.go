// Package scheduler decides which teams are due a reminder or a deadline post
// on a given minute tick, and tracks reminder delivery per team and date.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SupsBrief/db"
	"SupsBrief/utils"
)

var ErrNoReminder = errors.New("no reminder record for team and date")

type Store interface {
	TeamsAtTime(ctx context.Context, column db.TimeColumn, hour, minute int, timezone string) ([]db.Team, error)
	Timezones(ctx context.Context) ([]string, error)
	GetReminder(ctx context.Context, teamID uint, date string) (*db.Reminder, error)
	CreateReminder(ctx context.Context, reminder *db.Reminder) error
	UpdateReminderStatus(ctx context.Context, teamID uint, date string, status db.ReminderStatus, sentAt *time.Time) error
}

type Scheduler struct {
	store Store
	now   func() time.Time
}

func New(store Store, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{store: store, now: now}
}

// MatchesTick compares a stored HH:MM[:SS] time with the tick minute.
func MatchesTick(stored string, hour, minute int) bool {
	return utils.ClockMinute(stored) == fmt.Sprintf("%02d:%02d", hour, minute)
}

// TeamsDueForReminder returns every team whose reminder time is hour:minute,
// reading hour:minute in each team's own zone. Teams without a channel are
// included.
func (s *Scheduler) TeamsDueForReminder(ctx context.Context, hour, minute int) ([]db.Team, error) {
	return s.teamsAt(ctx, db.ReminderTimeColumn, hour, minute, "")
}

func (s *Scheduler) TeamsDueForDeadline(ctx context.Context, hour, minute int) ([]db.Team, error) {
	return s.teamsAt(ctx, db.DeadlineTimeColumn, hour, minute, "")
}

// DueTeams applies the same minute match per timezone, using now converted
// into each team's zone.
func (s *Scheduler) DueTeams(ctx context.Context, column db.TimeColumn, now time.Time) ([]db.Team, error) {
	zones, err := s.store.Timezones(ctx)
	if err != nil {
		return nil, err
	}

	var due []db.Team
	for _, zone := range zones {
		// Teams are created with a default zone; an empty value would widen
		// the query to every zone.
		if zone == "" {
			continue
		}
		loc, _ := utils.LoadLocation(zone)
		local := now.In(loc)
		teams, err := s.teamsAt(ctx, column, local.Hour(), local.Minute(), zone)
		if err != nil {
			return nil, err
		}
		due = append(due, teams...)
	}
	return due, nil
}

// teamsAt runs the prefix query and keeps only rows whose stored time
// matches the tick minute exactly.
func (s *Scheduler) teamsAt(ctx context.Context, column db.TimeColumn, hour, minute int, zone string) ([]db.Team, error) {
	teams, err := s.store.TeamsAtTime(ctx, column, hour, minute, zone)
	if err != nil {
		return nil, err
	}

	due := teams[:0]
	for _, team := range teams {
		stored := team.ReminderTime
		if column == db.DeadlineTimeColumn {
			stored = team.DeadlineTime
		}
		if MatchesTick(stored, hour, minute) {
			due = append(due, team)
		}
	}
	return due, nil
}

// EnsureReminderRecord returns the (team, date) record, creating a pending one
// on first use.
func (s *Scheduler) EnsureReminderRecord(ctx context.Context, teamID uint, date string) (*db.Reminder, error) {
	existing, err := s.store.GetReminder(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	reminder := &db.Reminder{
		TeamID:        teamID,
		ScheduledDate: date,
		Status:        db.ReminderPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.CreateReminder(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// MarkReminderOutcome moves the record to sent or failed. Sent stamps SentAt.
func (s *Scheduler) MarkReminderOutcome(ctx context.Context, teamID uint, date string, status db.ReminderStatus) (*db.Reminder, error) {
	if status != db.ReminderSent && status != db.ReminderFailed {
		return nil, fmt.Errorf("MarkReminderOutcome: invalid status %q", status)
	}

	var sentAt *time.Time
	if status == db.ReminderSent {
		t := s.now().UTC()
		sentAt = &t
	}
	if err := s.store.UpdateReminderStatus(ctx, teamID, date, status, sentAt); err != nil {
		return nil, err
	}

	reminder, err := s.store.GetReminder(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, ErrNoReminder
	}
	return reminder, nil
}
