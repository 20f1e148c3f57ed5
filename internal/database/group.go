package database

import (
	"github.com/buddyboard/buddyboard/internal/models"
	"gorm.io/gorm"
)

// CreateGroup inserts the group together with its creator's membership in
// one transaction: both rows land or neither does.
func (d *Database) CreateGroup(name, description string, creatorID uint) (*models.Group, error) {
	group := &models.Group{Name: name, Description: description}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := &models.GroupMember{UserID: creatorID, GroupID: group.ID}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	return d.GetGroup(group.ID)
}

func (d *Database) GetGroup(id uint) (*models.Group, error) {
	var group models.Group
	err := d.db.Preload("Members.User").First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns every group with its members, for the discover page.
func (d *Database) ListGroups() ([]models.Group, error) {
	var groups []models.Group
	err := d.db.Preload("Members.User").Order("id ASC").Find(&groups).Error
	return groups, err
}

func (d *Database) GroupExists(id uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.Group{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (d *Database) IsMember(userID, groupID uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.GroupMember{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	return count > 0, err
}

// AddMember inserts a membership row. A concurrent duplicate insert is
// caught by the unique index and surfaces as gorm.ErrDuplicatedKey.
func (d *Database) AddMember(userID, groupID uint) error {
	member := &models.GroupMember{UserID: userID, GroupID: groupID}
	return d.db.Create(member).Error
}
