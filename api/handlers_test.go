package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	slackbot "SupsBrief/internal/slack"
	"SupsBrief/internal/testfixtures"
	"SupsBrief/standup"
)

func (f *botFixture) check(t *testing.T, target, token string) (*httptest.ResponseRecorder, checkResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.HandleReminderCheck(rec, req)

	var resp checkResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, resp
}

func TestReminderCheckRequiresToken(t *testing.T) {
	f := newBotFixture(t)
	for _, token := range []string{"", "wrong"} {
		rec, _ := f.check(t, "/api/reminders/check", token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d", token, rec.Code)
		}
	}
}

func TestReminderCheckAtOverride(t *testing.T) {
	f := newBotFixture(t)

	// 19:00 in New York.
	rec, resp := f.check(t, "/api/reminders/check?at=2024-01-16T00:00:00Z", "tick-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if resp.Status != "ok" || resp.Reminded != 1 || resp.Posted != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(f.slack.PostsTo("UA")) != 1 || len(f.slack.PostsTo("UB")) != 1 {
		t.Fatalf("expected one reminder each, got %+v", f.slack.Posts())
	}

	// The fixture clock sits at 09:00, when nothing is due.
	_, resp = f.check(t, "/api/reminders/check", "tick-token")
	if resp.Reminded != 0 || resp.Posted != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestReminderCheckRejectsBadTime(t *testing.T) {
	f := newBotFixture(t)
	rec, _ := f.check(t, "/api/reminders/check?at=tomorrow", "tick-token")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReminderCheckReportsTeamFailures(t *testing.T) {
	f := newBotFixture(t)
	f.slack.MembersErr = testfixtures.ErrInjected

	rec, resp := f.check(t, "/api/reminders/check?at=2024-01-16T00:00:00Z", "tick-token")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Status != "error" || len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0], "T1") {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHealthCheck(t *testing.T) {
	f := newBotFixture(t)

	rec := httptest.NewRecorder()
	f.server.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthy: %d %s", rec.Code, rec.Body.String())
	}

	f.server.cfg.Health = fakePinger{err: errors.New("connection refused")}
	rec = httptest.NewRecorder()
	f.server.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"database":"unreachable"`) {
		t.Fatalf("unhealthy: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSlackInstallRedirects(t *testing.T) {
	f := newBotFixture(t)
	rec := httptest.NewRecorder()
	f.server.HandleSlackInstall(rec, httptest.NewRequest(http.MethodGet, "/slack/install", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, slackbot.OAuthAuthorizeURL) {
		t.Fatalf("Location = %q", loc)
	}
}

func oauthCallback(f *botFixture, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.HandleSlackOAuthCallback(rec, httptest.NewRequest(http.MethodGet, slackbot.CallbackPath+query, nil))
	return rec
}

func TestOAuthCallbackInstallsNewTeam(t *testing.T) {
	ctx := context.Background()
	f := newBotFixture(t)
	f.installer.inst = &slackbot.Installation{
		TeamID:      "TNEW",
		TeamName:    "Acme",
		AccessToken: "xoxb-new",
		BotUserID:   "UBOT2",
		InstallerID: "UINST",
	}
	f.slack.Profiles["UINST"] = standup.UserProfile{Name: "Grace", Timezone: "Europe/Berlin"}

	rec := oauthCallback(f, "?code=abc123")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if f.installer.code != "abc123" {
		t.Fatalf("exchanged code %q", f.installer.code)
	}

	team, err := f.store.GetTeam(ctx, "TNEW")
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if team.AccessToken != "sealed:xoxb-new" || team.Timezone != "Europe/Berlin" || team.AdminUserID != "UINST" {
		t.Fatalf("unexpected team %+v", team)
	}
	if team.ReminderTime != "19:00:00" || team.DeadlineTime != "20:00:00" || team.HasChannel() {
		t.Fatalf("defaults not applied: %+v", team)
	}

	welcome := f.slack.PostsTo("UINST")
	if len(welcome) != 1 || !strings.Contains(welcome[0].Text, "Thanks for installing Sups") || !strings.Contains(welcome[0].Text, "Europe/Berlin") {
		t.Fatalf("unexpected welcome %+v", welcome)
	}
}

func TestOAuthCallbackReinstallKeepsSettings(t *testing.T) {
	ctx := context.Background()
	f := newBotFixture(t)
	f.installer.inst = &slackbot.Installation{
		TeamID:      "T1",
		TeamName:    "Renamed",
		AccessToken: "xoxb-rotated",
		BotUserID:   "UBOT",
		InstallerID: "UINST",
	}

	if rec := oauthCallback(f, "?code=again"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	team, err := f.store.GetTeam(ctx, "T1")
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if team.AccessToken != "sealed:xoxb-rotated" || team.Name != "Renamed" {
		t.Fatalf("credentials not refreshed: %+v", team)
	}
	if team.ChannelID != "CSTAND" || team.Timezone != "America/New_York" {
		t.Fatalf("settings lost on reinstall: %+v", team)
	}
	if len(f.slack.PostsTo("UINST")) != 0 {
		t.Fatal("reinstall sent a welcome message")
	}
}

func TestOAuthCallbackFailures(t *testing.T) {
	f := newBotFixture(t)

	if rec := oauthCallback(f, "?error=access_denied"); rec.Code != http.StatusBadRequest {
		t.Fatalf("cancelled: status = %d", rec.Code)
	}
	if rec := oauthCallback(f, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing code: status = %d", rec.Code)
	}

	f.installer.err = errors.New("invalid_code")
	if rec := oauthCallback(f, "?code=bad"); rec.Code != http.StatusBadGateway {
		t.Fatalf("exchange failure: status = %d", rec.Code)
	}

	f.installer.err = nil
	f.installer.inst = &slackbot.Installation{TeamID: "TNEW"}
	if rec := oauthCallback(f, "?code=notoken"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("missing token: status = %d", rec.Code)
	}
}
