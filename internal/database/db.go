package database

import (
	"context"
	"errors"
	"log"

	"netadmin/internal/config"
	"netadmin/internal/model"
	"netadmin/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError turns unique-index violations into gorm.ErrDuplicatedKey
// so the services can map the losing side of an insert race to a
// field-level "already taken" error.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate creates or updates the core tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.RefreshToken{},
		&model.RemoteSite{},
		&model.Customer{},
	)
}

// Seed ensures the built-in admin role exists and, when configured,
// creates the initial admin account if no user holds the role yet.
func Seed(db *gorm.DB, cfg *config.Config) error {
	ctx := context.Background()
	roleRepo := repository.NewRoleRepository(db)

	adminRole, err := roleRepo.FindByName(ctx, "admin")
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		adminRole = &model.Role{
			Name:        "admin",
			Description: "Administrator with full access to user and role management",
		}
		if err := roleRepo.Create(ctx, adminRole); err != nil {
			return err
		}
	}

	// Only create the initial admin if explicitly configured
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	count, err := roleRepo.CountUsers(ctx, adminRole.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: string(hash),
		RoleID:   &adminRole.ID,
		Status:   model.UserStatusActive,
	}
	return db.Create(&admin).Error
}
