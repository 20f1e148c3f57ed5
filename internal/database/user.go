package database

import (
	"errors"

	"github.com/buddyboard/buddyboard/internal/models"
	"gorm.io/gorm"
)

// UpsertUserByEmail creates the user on first login and refreshes name and
// picture on subsequent logins. Email is the identity key.
func (d *Database) UpsertUserByEmail(email, name, picture string) (*models.User, error) {
	var user models.User
	err := d.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Email: email, Name: name, Picture: picture}
		if err := d.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if user.Name != name || user.Picture != picture {
		user.Name = name
		user.Picture = picture
		if err := d.db.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

func (d *Database) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
