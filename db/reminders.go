package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GetReminder returns the earliest reminder row for (team, date), or nil when
// none exists.
func (s *Store) GetReminder(ctx context.Context, teamID uint, date string) (*Reminder, error) {
	var reminder Reminder
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND scheduled_date = ?", teamID, date).
		Order("id ASC").
		First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetReminder: team %d on %s: %w", teamID, date, err)
	}
	return &reminder, nil
}

func (s *Store) CreateReminder(ctx context.Context, reminder *Reminder) error {
	if reminder.Status == "" {
		reminder.Status = ReminderPending
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("CreateReminder: team %d on %s: %w", reminder.TeamID, reminder.ScheduledDate, err)
	}
	return nil
}

// UpdateReminderStatus sets status and sent_at on the (team, date) rows.
func (s *Store) UpdateReminderStatus(ctx context.Context, teamID uint, date string, status ReminderStatus, sentAt *time.Time) error {
	err := s.db.WithContext(ctx).Model(&Reminder{}).
		Where("team_id = ? AND scheduled_date = ?", teamID, date).
		Updates(map[string]any{
			"status":  status,
			"sent_at": sentAt,
		}).Error
	if err != nil {
		return fmt.Errorf("UpdateReminderStatus: team %d on %s: %w", teamID, date, err)
	}
	return nil
}
