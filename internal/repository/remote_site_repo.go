package repository

import (
	"context"
	"strings"

	"netadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RemoteSiteRepository interface {
	Create(ctx context.Context, site *model.RemoteSite) error
	Update(ctx context.Context, site *model.RemoteSite) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RemoteSite, error)
	List(ctx context.Context, search string, offset, limit int) ([]model.RemoteSite, int64, error)
	ListAll(ctx context.Context) ([]model.RemoteSite, error)
}

type remoteSiteRepository struct {
	db *gorm.DB
}

func NewRemoteSiteRepository(db *gorm.DB) RemoteSiteRepository {
	return &remoteSiteRepository{db: db}
}

func (r *remoteSiteRepository) Create(ctx context.Context, site *model.RemoteSite) error {
	return GetDB(ctx, r.db).Create(site).Error
}

func (r *remoteSiteRepository) Update(ctx context.Context, site *model.RemoteSite) error {
	return GetDB(ctx, r.db).Save(site).Error
}

func (r *remoteSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RemoteSite{}).Error
}

func (r *remoteSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RemoteSite, error) {
	var site model.RemoteSite
	if err := GetDB(ctx, r.db).First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// List returns one page of remote sites, matched on name or city when
// search is non-empty.
func (r *remoteSiteRepository) List(ctx context.Context, search string, offset, limit int) ([]model.RemoteSite, int64, error) {
	db := GetDB(ctx, r.db)

	countQuery := db.Model(&model.RemoteSite{})
	listQuery := db.Model(&model.RemoteSite{})
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		countQuery = countQuery.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", term, term)
		listQuery = listQuery.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", term, term)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sites []model.RemoteSite
	err := listQuery.
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&sites).Error
	if err != nil {
		return nil, 0, err
	}

	return sites, total, nil
}

func (r *remoteSiteRepository) ListAll(ctx context.Context) ([]model.RemoteSite, error) {
	var sites []model.RemoteSite
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}
