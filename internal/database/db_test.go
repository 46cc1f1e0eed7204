package database

import (
	"fmt"
	"testing"

	"netadmin/internal/config"
	"netadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedCreatesAdminRoleAndUser(t *testing.T) {
	db := newSeedDB(t)
	cfg := &config.Config{
		AdminName:     "Administrator",
		AdminEmail:    "admin@x.com",
		AdminPassword: "Secret123!",
	}

	require.NoError(t, Seed(db, cfg))

	var role model.Role
	require.NoError(t, db.First(&role, "name = ?", "admin").Error)

	var admin model.User
	require.NoError(t, db.First(&admin, "email = ?", "admin@x.com").Error)
	require.NotNil(t, admin.RoleID)
	assert.Equal(t, role.ID, *admin.RoleID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("Secret123!")))

	// Rerunning the seed must not duplicate the role or the account.
	require.NoError(t, Seed(db, cfg))

	var roles, users int64
	db.Model(&model.Role{}).Count(&roles)
	db.Model(&model.User{}).Count(&users)
	assert.Equal(t, int64(1), roles)
	assert.Equal(t, int64(1), users)
}

func TestSeedWithoutAdminCredentials(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Seed(db, &config.Config{}))

	// The built-in role is always ensured; the account needs explicit
	// credentials.
	var roles, users int64
	db.Model(&model.Role{}).Count(&roles)
	db.Model(&model.User{}).Count(&users)
	assert.Equal(t, int64(1), roles)
	assert.Equal(t, int64(0), users)
}
