package service

import (
	"context"
	"testing"

	"netadmin/internal/apperrors"
	"netadmin/internal/model"
	"netadmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRoleService(t *testing.T) (RoleService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewRoleService(repository.NewRoleRepository(db), repository.NewTransactionManager(db)), db
}

func TestCreateRole(t *testing.T) {
	svc, db := newRoleService(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Manager", Description: "Regional manager"})
	require.NoError(t, err)
	assert.NotEmpty(t, role.ID)
	assert.Equal(t, "Manager", role.Name)
	assert.Equal(t, int64(0), role.UsersCount)

	var count int64
	db.Model(&model.Role{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateRoleValidation(t *testing.T) {
	svc, _ := newRoleService(t)
	ctx := context.Background()

	var ve *apperrors.ValidationError

	_, err := svc.CreateRole(ctx, CreateRoleRequest{Name: ""})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreateRole(ctx, CreateRoleRequest{Name: string(long)})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name must not exceed 255 characters", ve.Fields["name"])
}

func TestCreateRoleDuplicateName(t *testing.T) {
	svc, _ := newRoleService(t)
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Manager"})
	require.NoError(t, err)

	_, err = svc.CreateRole(ctx, CreateRoleRequest{Name: "Manager"})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name has already been taken", ve.Fields["name"])
}

func TestUpdateRoleKeepsOwnName(t *testing.T) {
	svc, _ := newRoleService(t)
	ctx := context.Background()

	created, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Manager"})
	require.NoError(t, err)

	// Uniqueness excludes the record being updated.
	updated, err := svc.UpdateRole(ctx, created.ID, UpdateRoleRequest{Name: "Manager", Description: "updated"})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Description)
}

func TestUpdateRoleCollision(t *testing.T) {
	svc, _ := newRoleService(t)
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Manager"})
	require.NoError(t, err)
	other, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "Engineer"})
	require.NoError(t, err)

	_, err = svc.UpdateRole(ctx, other.ID, UpdateRoleRequest{Name: "Manager"})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name has already been taken", ve.Fields["name"])
}

func TestUpdateRoleNotFound(t *testing.T) {
	svc, _ := newRoleService(t)

	_, err := svc.UpdateRole(context.Background(), "4f2e1b1e-0000-0000-0000-000000000000", UpdateRoleRequest{Name: "X"})
	var nfe *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nfe)
}

func TestDeleteRoleWithAssignedUsers(t *testing.T) {
	svc, db := newRoleService(t)
	ctx := context.Background()

	manager := seedRole(t, db, "Manager")
	backup := seedRole(t, db, "Staff")
	jane := seedUser(t, db, "Jane", "jane@x.com", "Secret123!", &manager)

	err := svc.DeleteRole(ctx, manager.ID.String())
	var ce *apperrors.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Cannot delete role with assigned users", ce.Message)

	// The role row must survive the refused delete.
	var count int64
	db.Model(&model.Role{}).Where("id = ?", manager.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Reassign the user, then deletion goes through.
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", jane.ID).Update("role_id", backup.ID).Error)
	require.NoError(t, svc.DeleteRole(ctx, manager.ID.String()))

	db.Model(&model.Role{}).Where("id = ?", manager.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteRoleNotFound(t *testing.T) {
	svc, _ := newRoleService(t)

	err := svc.DeleteRole(context.Background(), "4f2e1b1e-0000-0000-0000-000000000000")
	var nfe *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nfe)
}

func TestListRolesSearchAndUserCount(t *testing.T) {
	svc, db := newRoleService(t)
	ctx := context.Background()

	manager := seedRole(t, db, "Manager")
	seedRole(t, db, "Engineer")
	seedUser(t, db, "Jane", "jane@x.com", "Secret123!", &manager)
	seedUser(t, db, "Bob", "bob@x.com", "Secret123!", &manager)

	roles, total, err := svc.ListRoles(ctx, "man", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, roles, 1)
	assert.Equal(t, "Manager", roles[0].Name)
	assert.Equal(t, int64(2), roles[0].UsersCount)

	roles, total, err = svc.ListRoles(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, roles, 2)
}
