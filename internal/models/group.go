package models

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`

	Members []GroupMember `gorm:"foreignKey:GroupID"`
}

func (Group) TableName() string { return "group" }

// GroupMember links a user to a group. The composite unique index keeps a
// user from being added to the same group twice.
type GroupMember struct {
	ID      uint `gorm:"primaryKey"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_group_member"`
	GroupID uint `gorm:"not null;uniqueIndex:idx_group_member"`

	User  User  `gorm:"foreignKey:UserID"`
	Group Group `gorm:"foreignKey:GroupID"`
}

func (GroupMember) TableName() string { return "group_members" }
