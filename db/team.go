package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimeColumn selects which configured clock time a tick query matches.
type TimeColumn string

const (
	ReminderTimeColumn TimeColumn = "reminder_time"
	DeadlineTimeColumn TimeColumn = "deadline_time"
)

// SaveTeam inserts the team or, on reinstall, refreshes its credentials.
// Channel, times and timezone survive a reinstall.
func (s *Store) SaveTeam(ctx context.Context, team *Team) error {
	now := time.Now().UTC()
	team.UpdatedAt = now

	var existing Team
	result := s.db.WithContext(ctx).Where("slack_team_id = ?", team.SlackTeamID).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		team.CreatedAt = now
		if team.ReminderTime == "" {
			team.ReminderTime = DefaultReminderTime
		}
		if team.DeadlineTime == "" {
			team.DeadlineTime = DefaultDeadlineTime
		}
		if team.Timezone == "" {
			team.Timezone = DefaultTimezone
		}
	} else if result.Error != nil {
		return fmt.Errorf("SaveTeam: failed to look up team %s: %w", team.SlackTeamID, result.Error)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slack_team_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "bot_user_id", "admin_user_id", "name", "updated_at"}),
	}).Create(team).Error
	if err != nil {
		return fmt.Errorf("SaveTeam: failed to save team %s: %w", team.SlackTeamID, err)
	}

	var saved Team
	if err := s.db.WithContext(ctx).Where("slack_team_id = ?", team.SlackTeamID).First(&saved).Error; err != nil {
		return fmt.Errorf("SaveTeam: failed to reload team %s: %w", team.SlackTeamID, err)
	}
	*team = saved
	return nil
}

// GetTeam loads a team by its Slack team id.
func (s *Store) GetTeam(ctx context.Context, slackTeamID string) (*Team, error) {
	var team Team
	err := s.db.WithContext(ctx).Where("slack_team_id = ?", slackTeamID).First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *Store) UpdateChannel(ctx context.Context, teamID uint, channelID string) error {
	return s.updateTeamColumn(ctx, teamID, "channel_id", channelID)
}

func (s *Store) UpdateReminderTime(ctx context.Context, teamID uint, clock string) error {
	return s.updateTeamColumn(ctx, teamID, string(ReminderTimeColumn), clock)
}

func (s *Store) UpdateDeadlineTime(ctx context.Context, teamID uint, clock string) error {
	return s.updateTeamColumn(ctx, teamID, string(DeadlineTimeColumn), clock)
}

func (s *Store) UpdateTimezone(ctx context.Context, teamID uint, zone string) error {
	return s.updateTeamColumn(ctx, teamID, "timezone", zone)
}

func (s *Store) updateTeamColumn(ctx context.Context, teamID uint, column string, value any) error {
	err := s.db.WithContext(ctx).Model(&Team{}).
		Where("id = ?", teamID).
		Updates(map[string]any{
			column:       value,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("UpdateTeam: failed to set %s for team %d: %w", column, teamID, err)
	}
	return nil
}

// DeleteTeam removes the team and every dependent row in one transaction.
// It returns false when no team matched.
func (s *Store) DeleteTeam(ctx context.Context, slackTeamID string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team Team
		if err := tx.Where("slack_team_id = ?", slackTeamID).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		for _, model := range []any{&Submission{}, &Reminder{}, &Member{}} {
			if err := tx.Where("team_id = ?", team.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&team).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("DeleteTeam: failed to delete team %s: %w", slackTeamID, err)
	}
	return deleted, nil
}

// TeamsAtTime returns teams whose configured column starts with HH:MM.
// An empty timezone matches teams in every zone.
func (s *Store) TeamsAtTime(ctx context.Context, column TimeColumn, hour, minute int, timezone string) ([]Team, error) {
	if column != ReminderTimeColumn && column != DeadlineTimeColumn {
		return nil, fmt.Errorf("TeamsAtTime: unknown column %q", column)
	}
	pattern := fmt.Sprintf("%02d:%02d%%", hour, minute)

	query := s.db.WithContext(ctx).Where(string(column)+" LIKE ?", pattern)
	if timezone != "" {
		query = query.Where("timezone = ?", timezone)
	}

	var teams []Team
	if err := query.Order("id ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("TeamsAtTime: failed to query %s: %w", column, err)
	}
	return teams, nil
}

// Timezones lists the distinct zones configured across teams.
func (s *Store) Timezones(ctx context.Context) ([]string, error) {
	var zones []string
	err := s.db.WithContext(ctx).Model(&Team{}).
		Distinct("timezone").
		Order("timezone ASC").
		Pluck("timezone", &zones).Error
	if err != nil {
		return nil, fmt.Errorf("Timezones: %w", err)
	}
	return zones, nil
}
