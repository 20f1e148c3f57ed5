package database

import "gorm.io/gorm"

// Database is the single owner of persistent state. Handlers never touch
// *gorm.DB directly.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}
