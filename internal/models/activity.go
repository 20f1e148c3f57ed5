package models

import "time"

// UserActivity marks a habit completion. completed_date is a YYYY-MM-DD
// string; the composite unique index enforces at most one completion per
// user per group per day, closing the read-check-write race at the schema
// level.
type UserActivity struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_daily_completion"`
	GroupID       uint      `gorm:"not null;uniqueIndex:idx_daily_completion"`
	CompletedDate string    `gorm:"size:10;not null;uniqueIndex:idx_daily_completion"`
	CompletedAt   time.Time `gorm:"not null"`

	User  User  `gorm:"foreignKey:UserID"`
	Group Group `gorm:"foreignKey:GroupID"`
}

func (UserActivity) TableName() string { return "user_activity" }
