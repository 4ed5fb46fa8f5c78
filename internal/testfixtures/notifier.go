package testfixtures

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"SupsBrief/db"
	"SupsBrief/standup"
)

var ErrInjected = errors.New("injected failure")

// Post is one message recorded by FakeNotifier.
type Post struct {
	Channel  string
	Text     string
	ThreadTS string
	TS       string
}

// FakeNotifier records every post and serves rosters and profiles from maps.
type FakeNotifier struct {
	mu sync.Mutex

	Members    map[string][]string
	Profiles   map[string]standup.UserProfile
	MembersErr error
	UserErr    error
	// FailPost, when set, decides per message whether the post fails.
	FailPost func(channel, text, threadTS string) bool
	// EmptyTS makes every post succeed without a thread handle.
	EmptyTS bool

	posts []Post
	seq   int
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{
		Members:  map[string][]string{},
		Profiles: map[string]standup.UserProfile{},
	}
}

var _ standup.Notifier = (*FakeNotifier)(nil)

func (f *FakeNotifier) PostMessage(_ context.Context, channel, text, threadTS string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailPost != nil && f.FailPost(channel, text, threadTS) {
		return "", ErrInjected
	}
	f.seq++
	ts := fmt.Sprintf("1700000000.%06d", f.seq)
	if f.EmptyTS {
		ts = ""
	}
	f.posts = append(f.posts, Post{Channel: channel, Text: text, ThreadTS: threadTS, TS: ts})
	return ts, nil
}

func (f *FakeNotifier) ListMembers(_ context.Context, channel string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.MembersErr != nil {
		return nil, f.MembersErr
	}
	return append([]string(nil), f.Members[channel]...), nil
}

func (f *FakeNotifier) UserInfo(_ context.Context, userID string) (standup.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UserErr != nil {
		return standup.UserProfile{}, f.UserErr
	}
	return f.Profiles[userID], nil
}

// Posts returns a copy of everything posted so far.
func (f *FakeNotifier) Posts() []Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Post(nil), f.posts...)
}

// PostsTo returns the posts sent to channel, in order.
func (f *FakeNotifier) PostsTo(channel string) []Post {
	var out []Post
	for _, p := range f.Posts() {
		if p.Channel == channel {
			out = append(out, p)
		}
	}
	return out
}

// Replies returns the posts threaded under ts.
func (f *FakeNotifier) Replies(ts string) []Post {
	var out []Post
	for _, p := range f.Posts() {
		if p.ThreadTS == ts {
			out = append(out, p)
		}
	}
	return out
}

func (f *FakeNotifier) Reset() {
	f.mu.Lock()
	f.posts = nil
	f.mu.Unlock()
}

// FakeSlack hands the same FakeNotifier to every team.
type FakeSlack struct {
	Notifier *FakeNotifier
	Err      error
}

func (s *FakeSlack) NotifierFor(team *db.Team) (standup.Notifier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Notifier, nil
}

// Seal marks tokens so tests can tell sealed from raw values.
func (s *FakeSlack) Seal(token string) (string, error) {
	return "sealed:" + token, nil
}
