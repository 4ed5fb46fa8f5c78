package db

import (
	"time"
)

const (
	DefaultReminderTime = "19:00:00"
	DefaultDeadlineTime = "20:00:00"
	DefaultTimezone     = "America/New_York"
)

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
	ReminderFailed  ReminderStatus = "failed"
)

// Team is one installed Slack workspace. SlackTeamID is the external identifier
// and is unique across installs.
type Team struct {
	ID           uint   `gorm:"primaryKey"`
	SlackTeamID  string `gorm:"uniqueIndex;not null"`
	Name         string
	AccessToken  string `gorm:"not null"`
	BotUserID    string
	AdminUserID  string
	ChannelID    string
	ReminderTime string `gorm:"type:varchar(8);default:'19:00:00'"`
	DeadlineTime string `gorm:"type:varchar(8);default:'20:00:00'"`
	Timezone     string `gorm:"default:'America/New_York'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasChannel reports whether summaries can be posted for the team.
func (t *Team) HasChannel() bool {
	return t != nil && t.ChannelID != ""
}

// Submission is one raw stand-up message. A user may have several per date.
type Submission struct {
	ID        uint   `gorm:"primaryKey"`
	TeamID    uint   `gorm:"index:idx_submissions_team_date,priority:1;not null"`
	UserID    string `gorm:"index:idx_submissions_team_date,priority:3;not null"`
	UserName  string
	Content   string `gorm:"not null"`
	Date      string `gorm:"type:varchar(10);index:idx_submissions_team_date,priority:2;not null"`
	IsLate    bool   `gorm:"not null;default:false"`
	Posted    bool   `gorm:"column:posted_to_channel;not null;default:false"`
	ThreadTS  string
	CreatedAt time.Time
}

// Reminder tracks the reminder flow for one (team, date). Uniqueness is not
// enforced by the schema; go through scheduler.EnsureReminderRecord.
type Reminder struct {
	ID            uint           `gorm:"primaryKey"`
	TeamID        uint           `gorm:"index:idx_reminders_team_date,priority:1;not null"`
	ScheduledDate string         `gorm:"type:varchar(10);index:idx_reminders_team_date,priority:2;not null"`
	SentAt        *time.Time
	Status        ReminderStatus `gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt     time.Time
}

// Member holds per-user preferences set through DM commands.
type Member struct {
	ID         uint   `gorm:"primaryKey"`
	TeamID     uint   `gorm:"uniqueIndex:idx_members_team_user,priority:1;not null"`
	UserID     string `gorm:"uniqueIndex:idx_members_team_user,priority:2;not null"`
	SkipDate   string `gorm:"type:varchar(10)"`
	LeaveUntil string `gorm:"type:varchar(10)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAway reports whether the member skipped date or is on leave through it.
func (m Member) IsAway(date string) bool {
	if m.SkipDate != "" && m.SkipDate == date {
		return true
	}
	return m.LeaveUntil != "" && date <= m.LeaveUntil
}
