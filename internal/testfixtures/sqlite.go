// Package testfixtures provides shared helpers for package tests: a migrated
// SQLite store, a controllable clock and a recording notifier.
package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"

	"SupsBrief/db"
)

// NewStore opens a migrated store on a temporary SQLite file. The store is
// closed when the test ends.
func NewStore(tb testing.TB) *db.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "sups.db")
	store, err := db.OpenDialector(sqlite.Open(path))
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	tb.Cleanup(func() { _ = store.Close() })
	return store
}

// TeamOption adjusts a seeded team before it is saved.
type TeamOption func(*db.Team)

func WithChannel(channelID string) TeamOption {
	return func(t *db.Team) { t.ChannelID = channelID }
}

func WithTimezone(zone string) TeamOption {
	return func(t *db.Team) { t.Timezone = zone }
}

func WithTimes(reminder, deadline string) TeamOption {
	return func(t *db.Team) {
		t.ReminderTime = reminder
		t.DeadlineTime = deadline
	}
}

// SeedTeam inserts a new team with a plaintext token after applying opts.
func SeedTeam(tb testing.TB, store *db.Store, slackTeamID string, opts ...TeamOption) *db.Team {
	tb.Helper()
	ctx := context.Background()

	team := &db.Team{
		SlackTeamID: slackTeamID,
		Name:        "Team " + slackTeamID,
		AccessToken: "xoxb-" + slackTeamID,
		BotUserID:   "UBOT",
		AdminUserID: "UADMIN",
	}
	for _, opt := range opts {
		opt(team)
	}
	if err := store.SaveTeam(ctx, team); err != nil {
		tb.Fatalf("failed to seed team %s: %v", slackTeamID, err)
	}

	saved, err := store.GetTeam(ctx, slackTeamID)
	if err != nil {
		tb.Fatalf("failed to reload team %s: %v", slackTeamID, err)
	}
	return saved
}
