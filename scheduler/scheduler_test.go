package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"SupsBrief/db"
	"SupsBrief/internal/testfixtures"
)

func TestMatchesTick(t *testing.T) {
	tests := []struct {
		stored       string
		hour, minute int
		want         bool
	}{
		{"19:00:00", 19, 0, true},
		{"19:00:59", 19, 0, true},
		{"19:00", 19, 0, true},
		{"19:00:00", 19, 1, false},
		{"09:05:00", 9, 5, true},
		{"9:05:00", 9, 5, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		if got := MatchesTick(tt.stored, tt.hour, tt.minute); got != tt.want {
			t.Errorf("MatchesTick(%q, %d, %d) = %v, want %v", tt.stored, tt.hour, tt.minute, got, tt.want)
		}
	}
}

func TestTeamsDueForReminderMatchesExactMinute(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	testfixtures.SeedTeam(t, store, "T1", testfixtures.WithTimes("19:00:00", "20:00:00"))
	s := New(store, nil)

	due, err := s.TeamsDueForReminder(ctx, 19, 0)
	if err != nil {
		t.Fatalf("TeamsDueForReminder: %v", err)
	}
	if len(due) != 1 || due[0].SlackTeamID != "T1" {
		t.Fatalf("expected T1 due at 19:00, got %+v", due)
	}

	due, err = s.TeamsDueForReminder(ctx, 19, 1)
	if err != nil {
		t.Fatalf("TeamsDueForReminder: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected nothing due at 19:01, got %+v", due)
	}

	due, err = s.TeamsDueForDeadline(ctx, 20, 0)
	if err != nil || len(due) != 1 {
		t.Fatalf("TeamsDueForDeadline: %+v %v", due, err)
	}
}

func TestDueTeamsUsesEachTeamsTimezone(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	testfixtures.SeedTeam(t, store, "NY", testfixtures.WithTimezone("America/New_York"), testfixtures.WithTimes("09:00:00", "10:00:00"))
	testfixtures.SeedTeam(t, store, "TYO", testfixtures.WithTimezone("Asia/Tokyo"), testfixtures.WithTimes("09:00:00", "10:00:00"))
	s := New(store, nil)

	// 14:00 UTC is 09:00 in New York and 23:00 in Tokyo.
	now := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	due, err := s.DueTeams(ctx, db.ReminderTimeColumn, now)
	if err != nil {
		t.Fatalf("DueTeams: %v", err)
	}
	if len(due) != 1 || due[0].SlackTeamID != "NY" {
		t.Fatalf("expected only NY due, got %+v", due)
	}

	// 00:00 UTC is 09:00 in Tokyo.
	due, err = s.DueTeams(ctx, db.ReminderTimeColumn, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DueTeams: %v", err)
	}
	if len(due) != 1 || due[0].SlackTeamID != "TYO" {
		t.Fatalf("expected only TYO due, got %+v", due)
	}
}

// looseStore widens TeamsAtTime results with a row whose stored time only
// shares a prefix with the queried minute.
type looseStore struct {
	Store
	extra db.Team
}

func (l looseStore) TeamsAtTime(ctx context.Context, column db.TimeColumn, hour, minute int, zone string) ([]db.Team, error) {
	teams, err := l.Store.TeamsAtTime(ctx, column, hour, minute, zone)
	if err != nil {
		return nil, err
	}
	return append(teams, l.extra), nil
}

func TestDueTeamsDropsRowsOffTheTickMinute(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	testfixtures.SeedTeam(t, store, "UTC1", testfixtures.WithTimezone("UTC"), testfixtures.WithTimes("09:00:00", "10:00:00"))
	s := New(looseStore{
		Store: store,
		extra: db.Team{SlackTeamID: "SKEW", Timezone: "UTC", ReminderTime: "09:01:00", DeadlineTime: "09:00:00"},
	}, nil)

	now := time.Date(2024, 1, 15, 9, 0, 30, 0, time.UTC)
	due, err := s.DueTeams(ctx, db.ReminderTimeColumn, now)
	if err != nil {
		t.Fatalf("DueTeams: %v", err)
	}
	if len(due) != 1 || due[0].SlackTeamID != "UTC1" {
		t.Fatalf("expected only UTC1 due, got %+v", due)
	}

	due, err = s.TeamsDueForDeadline(ctx, 9, 0)
	if err != nil {
		t.Fatalf("TeamsDueForDeadline: %v", err)
	}
	if len(due) != 1 || due[0].SlackTeamID != "SKEW" {
		t.Fatalf("expected only SKEW due at its deadline, got %+v", due)
	}
}

func TestEnsureReminderRecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	team := testfixtures.SeedTeam(t, store, "T1")
	s := New(store, nil)

	first, err := s.EnsureReminderRecord(ctx, team.ID, "2024-01-15")
	if err != nil {
		t.Fatalf("EnsureReminderRecord: %v", err)
	}
	if first.Status != db.ReminderPending {
		t.Fatalf("expected pending, got %s", first.Status)
	}
	second, err := s.EnsureReminderRecord(ctx, team.ID, "2024-01-15")
	if err != nil {
		t.Fatalf("EnsureReminderRecord: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same record, got %d and %d", first.ID, second.ID)
	}

	other, err := s.EnsureReminderRecord(ctx, team.ID, "2024-01-16")
	if err != nil {
		t.Fatalf("EnsureReminderRecord: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("a new date must get its own record")
	}
}

func TestMarkReminderOutcome(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	team := testfixtures.SeedTeam(t, store, "T1")
	clock := testfixtures.NewClock(time.Date(2024, 1, 15, 19, 0, 5, 0, time.UTC))
	s := New(store, clock.NowFunc())

	if _, err := s.MarkReminderOutcome(ctx, team.ID, "2024-01-15", db.ReminderSent); !errors.Is(err, ErrNoReminder) {
		t.Fatalf("expected ErrNoReminder, got %v", err)
	}

	if _, err := s.EnsureReminderRecord(ctx, team.ID, "2024-01-15"); err != nil {
		t.Fatalf("EnsureReminderRecord: %v", err)
	}
	if _, err := s.MarkReminderOutcome(ctx, team.ID, "2024-01-15", db.ReminderPending); err == nil {
		t.Fatal("expected an error for a non-terminal status")
	}

	failed, err := s.MarkReminderOutcome(ctx, team.ID, "2024-01-15", db.ReminderFailed)
	if err != nil {
		t.Fatalf("MarkReminderOutcome: %v", err)
	}
	if failed.Status != db.ReminderFailed || failed.SentAt != nil {
		t.Fatalf("unexpected failed record %+v", failed)
	}

	sent, err := s.MarkReminderOutcome(ctx, team.ID, "2024-01-15", db.ReminderSent)
	if err != nil {
		t.Fatalf("MarkReminderOutcome: %v", err)
	}
	if sent.Status != db.ReminderSent || sent.SentAt == nil || sent.SentAt.Unix() != clock.Now().Unix() {
		t.Fatalf("unexpected sent record %+v", sent)
	}
}
