package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

func (s *Store) SetMemberSkip(ctx context.Context, teamID uint, userID, date string) error {
	return s.upsertMember(ctx, teamID, userID, "skip_date", date)
}

func (s *Store) SetMemberLeave(ctx context.Context, teamID uint, userID, until string) error {
	return s.upsertMember(ctx, teamID, userID, "leave_until", until)
}

func (s *Store) upsertMember(ctx context.Context, teamID uint, userID, column, value string) error {
	now := time.Now().UTC()
	member := Member{TeamID: teamID, UserID: userID, CreatedAt: now, UpdatedAt: now}
	switch column {
	case "skip_date":
		member.SkipDate = value
	case "leave_until":
		member.LeaveUntil = value
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&member).Error
	if err != nil {
		return fmt.Errorf("SetMember: failed to set %s for user %s in team %d: %w", column, userID, teamID, err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, teamID uint, userID string) (*Member, error) {
	var members []Member
	err := s.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Limit(1).Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("GetMember: user %s in team %d: %w", userID, teamID, err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	return &members[0], nil
}

// AwayMembers returns the users of a team who skipped date or are on leave.
func (s *Store) AwayMembers(ctx context.Context, teamID uint, date string) ([]string, error) {
	var members []Member
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND (skip_date = ? OR leave_until >= ?)", teamID, date, date).
		Order("user_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("AwayMembers: team %d on %s: %w", teamID, date, err)
	}

	away := make([]string, 0, len(members))
	for _, m := range members {
		if m.IsAway(date) {
			away = append(away, m.UserID)
		}
	}
	return away, nil
}
