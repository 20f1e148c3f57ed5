package models

import "time"

// Message rows are append-only: never edited or deleted. Author identity is
// denormalized into user_name/user_image so the chat log survives profile
// changes.
type Message struct {
	ID        uint   `gorm:"primaryKey"`
	GroupID   uint   `gorm:"not null;index"`
	UserName  string `gorm:"size:100;not null"`
	Content   string `gorm:"type:text;not null"`
	UserImage string `gorm:"not null"`
	CreatedAt time.Time
}

func (Message) TableName() string { return "messages" }
