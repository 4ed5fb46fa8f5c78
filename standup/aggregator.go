// Package standup holds the submission aggregation, status, and posting rules
// for daily stand-ups.
package standup

import (
	"context"
	"strings"
	"time"

	"SupsBrief/db"
	"SupsBrief/utils"
)

const mergeSeparator = "\n\n"

// SubmissionStore is the slice of the record store the aggregator needs.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *db.Submission) error
	ListSubmissions(ctx context.Context, teamID uint, date string) ([]db.Submission, error)
	ListUserSubmissions(ctx context.Context, teamID uint, userID, date string) ([]db.Submission, error)
	ListUnpostedSubmissions(ctx context.Context, teamID uint, date string) ([]db.Submission, error)
	MarkSubmissionsPosted(ctx context.Context, ids []uint, threadTS string) (int64, error)
}

type SubmissionInput struct {
	UserID   string
	UserName string
	Content  string
	// Date defaults to the team's current local date.
	Date   string
	IsLate bool
}

// Aggregator records raw submissions and projects them into per-user updates.
type Aggregator struct {
	store SubmissionStore
	now   func() time.Time
}

func NewAggregator(store SubmissionStore, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{store: store, now: now}
}

// RecordSubmission appends a new row for the user.
func (a *Aggregator) RecordSubmission(ctx context.Context, team *db.Team, in SubmissionInput) (*db.Submission, error) {
	now := a.now().UTC()
	date := in.Date
	if date == "" {
		date = TeamDate(now, team)
	}

	sub := &db.Submission{
		TeamID:    team.ID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Content:   in.Content,
		Date:      date,
		IsLate:    in.IsLate,
		CreatedAt: now,
	}
	if err := a.store.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// MergeForUser joins the user's submissions for date in creation order,
// separated by a blank line. It returns "" when there are none.
func (a *Aggregator) MergeForUser(ctx context.Context, teamID uint, userID, date string) (string, error) {
	subs, err := a.store.ListUserSubmissions(ctx, teamID, userID, date)
	if err != nil {
		return "", err
	}
	return mergeContent(subs), nil
}

func mergeContent(subs []db.Submission) string {
	if len(subs) == 0 {
		return ""
	}
	parts := make([]string, len(subs))
	for i, s := range subs {
		parts[i] = s.Content
	}
	return strings.Join(parts, mergeSeparator)
}

func (a *Aggregator) ListForDate(ctx context.Context, teamID uint, date string) ([]db.Submission, error) {
	return a.store.ListSubmissions(ctx, teamID, date)
}

func (a *Aggregator) ListUnposted(ctx context.Context, teamID uint, date string) ([]db.Submission, error) {
	return a.store.ListUnpostedSubmissions(ctx, teamID, date)
}

func (a *Aggregator) ListForUserAndDate(ctx context.Context, teamID uint, userID, date string) ([]db.Submission, error) {
	return a.store.ListUserSubmissions(ctx, teamID, userID, date)
}

// MarkPosted flags ids as posted under threadTS with one bulk write.
func (a *Aggregator) MarkPosted(ctx context.Context, ids []uint, threadTS string) error {
	_, err := a.store.MarkSubmissionsPosted(ctx, ids, threadTS)
	return err
}

// Today is the team's current local date.
func (a *Aggregator) Today(team *db.Team) string {
	return TeamDate(a.now(), team)
}

// TeamDate is the calendar date of t in the team's timezone. Unknown zones
// fall back to UTC.
func TeamDate(t time.Time, team *db.Team) string {
	tz := ""
	if team != nil {
		tz = team.Timezone
	}
	loc, _ := utils.LoadLocation(tz)
	return utils.LocalDate(t, loc)
}
