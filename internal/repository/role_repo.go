package repository

import (
	"context"
	"strings"

	"netadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleWithUserCount is a role row annotated with the number of users
// referencing it, as shown in the role management table.
type RoleWithUserCount struct {
	model.Role
	UsersCount int64 `json:"users_count"`
}

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context, search string, offset, limit int) ([]RoleWithUserCount, int64, error)
	ListAll(ctx context.Context) ([]model.Role, error)
	CountByName(ctx context.Context, name string, excludeID *uuid.UUID) (int64, error)
	CountUsers(ctx context.Context, roleID uuid.UUID) (int64, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Create(role).Error
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Role{}).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns one page of roles annotated with users_count, filtered by a
// case-insensitive substring match on name when search is non-empty.
func (r *roleRepository) List(ctx context.Context, search string, offset, limit int) ([]RoleWithUserCount, int64, error) {
	db := GetDB(ctx, r.db)

	countQuery := db.Model(&model.Role{})
	listQuery := db.Model(&model.Role{})
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		countQuery = countQuery.Where("LOWER(roles.name) LIKE ?", term)
		listQuery = listQuery.Where("LOWER(roles.name) LIKE ?", term)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []RoleWithUserCount
	err := listQuery.
		Select("roles.*, COUNT(users.id) AS users_count").
		Joins("LEFT JOIN users ON users.role_id = roles.id").
		Group("roles.id").
		Order("roles.created_at ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *roleRepository) ListAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// CountByName counts roles holding the given name, optionally excluding
// one record so an update does not collide with itself.
func (r *roleRepository) CountByName(ctx context.Context, name string, excludeID *uuid.UUID) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Role{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *roleRepository) CountUsers(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}
