package database

import (
	"fmt"
	"testing"

	"github.com/buddyboard/buddyboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory database per test, migrated to the current
// schema.
func testDB(t *testing.T) *Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewDatabase(db)
}

func seedUser(t *testing.T, d *Database, email, name string) *models.User {
	t.Helper()
	user, err := d.UpsertUserByEmail(email, name, "https://example.com/"+name+".png")
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func seedGroup(t *testing.T, d *Database, name string, creatorID uint) *models.Group {
	t.Helper()
	group, err := d.CreateGroup(name, name+" description", creatorID)
	if err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	return group
}

func TestUpsertUserByEmailCreatesThenUpdates(t *testing.T) {
	d := testDB(t)

	created, err := d.UpsertUserByEmail("x@y.com", "Xavier", "pic-1")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	updated, err := d.UpsertUserByEmail("x@y.com", "Xavier Y", "pic-2")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same user, got id %d and %d", created.ID, updated.ID)
	}
	if updated.Name != "Xavier Y" || updated.Picture != "pic-2" {
		t.Fatalf("expected refreshed profile, got %+v", updated)
	}

	found, err := d.FindUserByEmail("x@y.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, found.ID)
	}
}
