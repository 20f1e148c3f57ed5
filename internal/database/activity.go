package database

import (
	"github.com/buddyboard/buddyboard/internal/models"
)

// LeaderboardRow aggregates one user's completions within a group.
type LeaderboardRow struct {
	UserID          uint   `json:"user_id"`
	UserName        string `json:"user_name"`
	UserPicture     string `json:"user_picture"`
	CompletionCount int    `json:"completion_count"`
	LastCompleted   string `json:"last_completed"`
}

// ActivityRow is one entry of a group's recent-activity feed.
type ActivityRow struct {
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	UserPicture   string `json:"user_picture"`
	CompletedDate string `json:"completed_date"`
}

func (d *Database) RecordCompletion(activity *models.UserActivity) error {
	return d.db.Create(activity).Error
}

// HasCompleted reports whether the user marked the group's habit done on the
// given date.
func (d *Database) HasCompleted(userID, groupID uint, date string) (bool, error) {
	var count int64
	err := d.db.Model(&models.UserActivity{}).
		Where("user_id = ? AND group_id = ? AND completed_date = ?", userID, groupID, date).
		Count(&count).Error
	return count > 0, err
}

// GroupLeaderboard ranks a group's users by all-time completion count.
// Equal counts order by most recent completion first.
func (d *Database) GroupLeaderboard(groupID uint) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := d.db.Model(&models.UserActivity{}).
		Select(`user_activity.user_id, "user".name AS user_name, "user".picture AS user_picture, COUNT(*) AS completion_count, MAX(user_activity.completed_date) AS last_completed`).
		Joins(`JOIN "user" ON "user".id = user_activity.user_id`).
		Where("user_activity.group_id = ?", groupID).
		Group(`user_activity.user_id, "user".name, "user".picture`).
		Order("completion_count DESC, last_completed DESC").
		Scan(&rows).Error
	return rows, err
}

// RecentGroupActivity returns the latest completions in a group, newest
// first, joined with the completing user's identity.
func (d *Database) RecentGroupActivity(groupID uint, limit int) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := d.db.Model(&models.UserActivity{}).
		Select(`"user".name AS user_name, "user".email AS user_email, "user".picture AS user_picture, user_activity.completed_date`).
		Joins(`JOIN "user" ON "user".id = user_activity.user_id`).
		Where("user_activity.group_id = ?", groupID).
		Order("user_activity.completed_date DESC, user_activity.completed_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
