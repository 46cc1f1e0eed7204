package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"netadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Role{}))
	return db
}

func TestRunInTxCommits(t *testing.T) {
	db := newRepoDB(t)
	txm := NewTransactionManager(db)
	repo := NewRoleRepository(db)

	err := txm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return repo.Create(txCtx, &model.Role{Name: "Manager"})
	})
	require.NoError(t, err)

	var count int64
	db.Model(&model.Role{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db := newRepoDB(t)
	txm := NewTransactionManager(db)
	repo := NewRoleRepository(db)

	boom := errors.New("boom")
	err := txm.RunInTx(context.Background(), func(txCtx context.Context) error {
		if err := repo.Create(txCtx, &model.Role{Name: "Manager"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The write inside the failed transaction must not be visible.
	var count int64
	db.Model(&model.Role{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetDBPrefersContextTransaction(t *testing.T) {
	db := newRepoDB(t)
	txm := NewTransactionManager(db)

	err := txm.RunInTx(context.Background(), func(txCtx context.Context) error {
		if err := GetDB(txCtx, db).Create(&model.Role{Name: "Manager"}).Error; err != nil {
			return err
		}
		// The uncommitted row is visible through the same context.
		var count int64
		if err := GetDB(txCtx, db).Model(&model.Role{}).Count(&count).Error; err != nil {
			return err
		}
		assert.Equal(t, int64(1), count)
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	db.Model(&model.Role{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
