package models

type User struct {
	ID      uint   `gorm:"primaryKey"`
	Email   string `gorm:"size:120;uniqueIndex;not null"`
	Name    string `gorm:"size:120;not null"`
	Picture string `gorm:"size:255"`
}

func (User) TableName() string { return "user" }
