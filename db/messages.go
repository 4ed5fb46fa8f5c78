package db

import (
	"context"
	"fmt"
	"time"
)

const submissionOrder = "created_at ASC, id ASC"

// CreateSubmission appends one row. It never merges with earlier rows.
func (s *Store) CreateSubmission(ctx context.Context, sub *Submission) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("CreateSubmission: failed to save submission for team %d, user %s: %w", sub.TeamID, sub.UserID, err)
	}
	return nil
}

// ListSubmissions returns every submission for (team, date) in creation order.
func (s *Store) ListSubmissions(ctx context.Context, teamID uint, date string) ([]Submission, error) {
	var subs []Submission
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND date = ?", teamID, date).
		Order(submissionOrder).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("ListSubmissions: failed to fetch submissions for team %d on %s: %w", teamID, date, err)
	}
	return subs, nil
}

func (s *Store) ListUserSubmissions(ctx context.Context, teamID uint, userID, date string) ([]Submission, error) {
	var subs []Submission
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND date = ?", teamID, userID, date).
		Order(submissionOrder).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("ListUserSubmissions: failed to fetch submissions for team %d, user %s on %s: %w", teamID, userID, date, err)
	}
	return subs, nil
}

func (s *Store) ListUnpostedSubmissions(ctx context.Context, teamID uint, date string) ([]Submission, error) {
	var subs []Submission
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND date = ? AND posted_to_channel = ?", teamID, date, false).
		Order(submissionOrder).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("ListUnpostedSubmissions: failed to fetch submissions for team %d on %s: %w", teamID, date, err)
	}
	return subs, nil
}

// MarkSubmissionsPosted flags all ids as posted under threadTS in a single
// UPDATE and returns the number of rows touched.
func (s *Store) MarkSubmissionsPosted(ctx context.Context, ids []uint, threadTS string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Model(&Submission{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"posted_to_channel": true,
			"thread_ts":         threadTS,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("MarkSubmissionsPosted: failed to update %d submissions: %w", len(ids), result.Error)
	}
	return result.RowsAffected, nil
}
