package service

import (
	"fmt"
	"testing"

	"netadmin/internal/database"
	"netadmin/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory sqlite database and runs the
// migrations. cache=shared keeps the schema visible across pooled
// connections; the test name keeps databases isolated between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedRole(t *testing.T, db *gorm.DB, name string) model.Role {
	t.Helper()

	role := model.Role{Name: name, Description: name + " role"}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("failed to seed role %q: %v", name, err)
	}
	return role
}

func seedUser(t *testing.T, db *gorm.DB, name, email, password string, role *model.Role) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Status:   model.UserStatusActive,
	}
	if role != nil {
		user.RoleID = &role.ID
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %q: %v", email, err)
	}
	return user
}
