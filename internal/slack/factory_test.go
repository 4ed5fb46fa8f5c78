package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	"SupsBrief/db"
	"SupsBrief/utils"
)

func TestFactoryToken(t *testing.T) {
	cipher, err := utils.NewCipher("0123456789abcdef-secret")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	f := NewFactory(cipher, "", utils.DiscardLogger())

	sealed, err := f.Seal("xoxb-real")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "xoxb-real" {
		t.Fatal("Seal returned the plaintext token")
	}

	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{"sealed", sealed, "xoxb-real"},
		{"legacy plaintext", "xoxb-legacy", "xoxb-legacy"},
	}
	for _, tt := range tests {
		got, err := f.Token(&db.Team{SlackTeamID: "T1", AccessToken: tt.stored})
		if err != nil || got != tt.want {
			t.Errorf("%s: Token = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}

	if _, err := f.Token(&db.Team{SlackTeamID: "T1"}); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if _, err := f.NotifierFor(&db.Team{SlackTeamID: "T1"}); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestFactoryWithoutCipher(t *testing.T) {
	f := NewFactory(nil, "", utils.DiscardLogger())
	sealed, err := f.Seal("xoxb-1")
	if err != nil || sealed != "xoxb-1" {
		t.Fatalf("Seal = %q, %v", sealed, err)
	}
	token, err := f.Token(&db.Team{AccessToken: "xoxb-1"})
	if err != nil || token != "xoxb-1" {
		t.Fatalf("Token = %q, %v", token, err)
	}
}

func TestFactoryNotifierExcludesTeamBot(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.memberPages[""] = map[string]any{"ok": true, "members": []string{"U1", "UBOT9"}}

	f := NewFactory(nil, srv.URL, utils.DiscardLogger(), WithRetry(0, 0))
	n, err := f.NotifierFor(&db.Team{SlackTeamID: "T1", AccessToken: "xoxb-1", BotUserID: "UBOT9"})
	if err != nil {
		t.Fatalf("NotifierFor: %v", err)
	}
	members, err := n.ListMembers(context.Background(), "CSTAND")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if strings.Join(members, ",") != "U1" {
		t.Fatalf("members = %v", members)
	}
}

func TestOAuthAuthorizeURL(t *testing.T) {
	o := NewOAuth("123.456", "secret", "https://sups.example.com")
	got := o.AuthorizeURL()
	for _, want := range []string{OAuthAuthorizeURL + "?", "client_id=123.456", "redirect_uri=https%3A%2F%2Fsups.example.com%2Fslack%2Foauth%2Fcallback", "scope=chat%3Awrite"} {
		if !strings.Contains(got, want) {
			t.Errorf("AuthorizeURL %q missing %q", got, want)
		}
	}
}
