package standup

import (
	"context"
	"errors"
	"fmt"

	log15 "github.com/inconshreveable/log15/v3"

	"SupsBrief/db"
)

var ErrNoThread = errors.New("summary header returned no thread handle")

// SummaryResult reports a deadline post. Posted counts users whose threaded
// reply was delivered.
type SummaryResult struct {
	Posted               int
	UsersWithSubmissions int
}

// Poster drives the deadline flow for one team at a time. Calls for a team
// are strictly sequential because replies hang off the header's thread.
type Poster struct {
	agg     *Aggregator
	tracker *Tracker
	log     log15.Logger
}

func NewPoster(agg *Aggregator, tracker *Tracker, logger log15.Logger) *Poster {
	return &Poster{agg: agg, tracker: tracker, log: logger.New("module", "poster")}
}

// PostDailySummary posts the header, one threaded reply per contributing user,
// and a "waiting on" reply for roster members who did not submit.
func (p *Poster) PostDailySummary(ctx context.Context, team *db.Team, date string, n Notifier) (SummaryResult, error) {
	return p.post(ctx, team, date, n, "")
}

// PostDemoSummary runs the same flow with every message marked as a demo.
func (p *Poster) PostDemoSummary(ctx context.Context, team *db.Team, date string, n Notifier) (SummaryResult, error) {
	return p.post(ctx, team, date, n, DemoPrefix)
}

func (p *Poster) post(ctx context.Context, team *db.Team, date string, n Notifier, prefix string) (SummaryResult, error) {
	var result SummaryResult
	channel := team.ChannelID
	log := p.log.New("team", team.SlackTeamID, "date", date)

	subs, err := p.agg.ListForDate(ctx, team.ID, date)
	if err != nil {
		return result, err
	}

	if len(subs) == 0 {
		if _, err := n.PostMessage(ctx, channel, prefix+NoSubmissionsText(date), ""); err != nil {
			return result, fmt.Errorf("PostDailySummary: failed to post empty summary: %w", err)
		}
		log.Info("no submissions to post")
		return result, nil
	}

	threadTS, err := n.PostMessage(ctx, channel, prefix+SummaryHeader(date), "")
	if err != nil {
		return result, fmt.Errorf("PostDailySummary: failed to post header: %w", err)
	}
	if threadTS == "" {
		return result, ErrNoThread
	}

	status := BuildStatus(subs)
	result.UsersWithSubmissions = len(status.Submitted)

	idsByUser := make(map[string][]uint, len(status.Submitted))
	for _, s := range subs {
		idsByUser[s.UserID] = append(idsByUser[s.UserID], s.ID)
	}

	var postedIDs []uint
	for _, userID := range status.Submitted {
		merged, err := p.agg.MergeForUser(ctx, team.ID, userID, date)
		if err != nil {
			return result, err
		}
		text := prefix + UserUpdateText(userID, merged, status.IsLate(userID))
		if _, err := n.PostMessage(ctx, channel, text, threadTS); err != nil {
			log.Warn("failed to post user update", "user", userID, "err", err)
			continue
		}
		result.Posted++
		postedIDs = append(postedIDs, idsByUser[userID]...)
	}

	if len(postedIDs) > 0 {
		if err := p.agg.MarkPosted(ctx, postedIDs, threadTS); err != nil {
			return result, err
		}
	}

	roster, err := n.ListMembers(ctx, channel)
	if err != nil {
		log.Warn("failed to fetch roster, skipping waiting-on list", "err", err)
		return result, nil
	}
	missing, err := p.tracker.MissingUsers(ctx, team.ID, date, roster)
	if err != nil {
		return result, err
	}
	if len(missing) > 0 {
		if _, err := n.PostMessage(ctx, channel, prefix+WaitingOnText(missing), threadTS); err != nil {
			log.Warn("failed to post waiting-on list", "err", err)
		}
	}

	log.Info("posted daily summary", "posted", result.Posted, "users", result.UsersWithSubmissions, "missing", len(missing))
	return result, nil
}

// AlreadyPosted reports whether a summary thread already carries some of the
// submissions for date.
func (p *Poster) AlreadyPosted(ctx context.Context, teamID uint, date string) (bool, error) {
	all, err := p.agg.ListForDate(ctx, teamID, date)
	if err != nil {
		return false, err
	}
	unposted, err := p.agg.ListUnposted(ctx, teamID, date)
	if err != nil {
		return false, err
	}
	return len(all) > len(unposted), nil
}
