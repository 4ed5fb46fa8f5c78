package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"SupsBrief/db"
	slackbot "SupsBrief/internal/slack"
	"SupsBrief/internal/testfixtures"
	"SupsBrief/scheduler"
	"SupsBrief/standup"
	"SupsBrief/utils"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

type fakeInstaller struct {
	inst *slackbot.Installation
	err  error
	code string
}

func (f *fakeInstaller) AuthorizeURL() string {
	return slackbot.OAuthAuthorizeURL + "?client_id=test"
}

func (f *fakeInstaller) Exchange(_ context.Context, code string) (*slackbot.Installation, error) {
	f.code = code
	return f.inst, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type botFixture struct {
	store     *db.Store
	clock     *testfixtures.Clock
	slack     *testfixtures.FakeNotifier
	agg       *standup.Aggregator
	bot       *Bot
	server    *Server
	installer *fakeInstaller
	team      *db.Team
}

// 09:00 in New York on Monday 2024-01-15.
var morning = time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	store := testfixtures.NewStore(t)
	clock := testfixtures.NewClock(morning)
	now := clock.NowFunc()
	logger := utils.DiscardLogger()

	agg := standup.NewAggregator(store, now)
	tracker := standup.NewTracker(agg)
	poster := standup.NewPoster(agg, tracker, logger)
	slack := testfixtures.NewFakeNotifier()
	source := &testfixtures.FakeSlack{Notifier: slack}
	runner := scheduler.NewRunner(scheduler.New(store, now), tracker, poster, store, source, nil, logger)

	bot := NewBot(Deps{
		Store:      store,
		Aggregator: agg,
		Tracker:    tracker,
		Poster:     poster,
		Runner:     runner,
		Slack:      source,
		Now:        now,
		Logger:     logger,
	})
	installer := &fakeInstaller{}
	server := NewServer(bot, runner, ServerConfig{
		SigningSecret:      testSigningSecret,
		ReminderCheckToken: "tick-token",
		Installer:          installer,
		Health:             fakePinger{},
	}, logger)

	team := testfixtures.SeedTeam(t, store, "T1",
		testfixtures.WithChannel("CSTAND"),
		testfixtures.WithTimezone("America/New_York"),
		testfixtures.WithTimes("19:00:00", "20:00:00"),
	)
	slack.Members["CSTAND"] = []string{"UA", "UB"}

	return &botFixture{
		store:     store,
		clock:     clock,
		slack:     slack,
		agg:       agg,
		bot:       bot,
		server:    server,
		installer: installer,
		team:      team,
	}
}

func (f *botFixture) reload(t *testing.T) *db.Team {
	t.Helper()
	team, err := f.store.GetTeam(context.Background(), f.team.SlackTeamID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	return team
}

func (f *botFixture) lastPostTo(t *testing.T, channel string) string {
	t.Helper()
	posts := f.slack.PostsTo(channel)
	if len(posts) == 0 {
		t.Fatalf("nothing posted to %s", channel)
	}
	return posts[len(posts)-1].Text
}

func signedRequest(t *testing.T, secret, body string) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + ts + ":" + body))

	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func (f *botFixture) sendEvent(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.HandleSlackEvents(rec, signedRequest(t, testSigningSecret, body))
	return rec
}

func dmEvent(user, text string) string {
	return `{"token":"x","team_id":"T1","type":"event_callback","event":{"type":"message","channel":"D1","channel_type":"im","user":"` +
		user + `","text":"` + text + `","ts":"1705327200.000100"}}`
}

func mentionEvent(text string) string {
	return `{"token":"x","team_id":"T1","type":"event_callback","event":{"type":"app_mention","channel":"CSTAND","user":"UA","text":"` +
		text + `","ts":"1705327200.000200"}}`
}
