package standup

import (
	"context"

	"SupsBrief/db"
)

// Status is the submission breakdown for one team and date. Submitted and
// Late keep first-appearance order.
type Status struct {
	Submitted    []string
	Late         []string
	DisplayNames map[string]string

	submitted map[string]struct{}
	late      map[string]struct{}
}

func (s *Status) HasSubmitted(userID string) bool {
	_, ok := s.submitted[userID]
	return ok
}

func (s *Status) IsLate(userID string) bool {
	_, ok := s.late[userID]
	return ok
}

// OnTime lists submitters that were not flagged late.
func (s *Status) OnTime() []string {
	out := make([]string, 0, len(s.Submitted))
	for _, u := range s.Submitted {
		if !s.IsLate(u) {
			out = append(out, u)
		}
	}
	return out
}

// BuildStatus deduplicates subs by author. The first row seen for a user
// decides the display name and the late flag.
func BuildStatus(subs []db.Submission) *Status {
	st := &Status{
		Submitted:    []string{},
		Late:         []string{},
		DisplayNames: map[string]string{},
		submitted:    map[string]struct{}{},
		late:         map[string]struct{}{},
	}
	for _, sub := range subs {
		if _, seen := st.submitted[sub.UserID]; seen {
			continue
		}
		st.submitted[sub.UserID] = struct{}{}
		st.Submitted = append(st.Submitted, sub.UserID)

		if sub.UserName != "" {
			st.DisplayNames[sub.UserID] = sub.UserName
		}
		if sub.IsLate {
			st.late[sub.UserID] = struct{}{}
			st.Late = append(st.Late, sub.UserID)
		}
	}
	return st
}

// Missing returns roster members absent from st, in roster order.
func Missing(roster []string, st *Status) []string {
	missing := []string{}
	seen := make(map[string]struct{}, len(roster))
	for _, u := range roster {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		if st == nil || !st.HasSubmitted(u) {
			missing = append(missing, u)
		}
	}
	return missing
}

// Tracker answers who has and has not submitted.
type Tracker struct {
	agg *Aggregator
}

func NewTracker(agg *Aggregator) *Tracker {
	return &Tracker{agg: agg}
}

func (t *Tracker) SubmissionStatus(ctx context.Context, teamID uint, date string) (*Status, error) {
	subs, err := t.agg.ListForDate(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	return BuildStatus(subs), nil
}

// MissingUsers is roster minus submitters. The roster is supplied by the
// caller.
func (t *Tracker) MissingUsers(ctx context.Context, teamID uint, date string, roster []string) ([]string, error) {
	if len(roster) == 0 {
		return []string{}, nil
	}
	st, err := t.SubmissionStatus(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	return Missing(roster, st), nil
}

func (t *Tracker) HasSubmittedToday(ctx context.Context, team *db.Team, userID string) (bool, error) {
	subs, err := t.agg.ListForUserAndDate(ctx, team.ID, userID, t.agg.Today(team))
	if err != nil {
		return false, err
	}
	return len(subs) > 0, nil
}
