package database

import "github.com/buddyboard/buddyboard/internal/models"

func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Create(message).Error
}

// ListGroupMessages returns the full chat log for a group in creation order.
// The id tie-break keeps the order stable when timestamps collide.
func (d *Database) ListGroupMessages(groupID uint) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
