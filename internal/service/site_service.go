package service

import (
	"context"
	"errors"
	"fmt"

	"netadmin/internal/apperrors"
	"netadmin/internal/model"
	"netadmin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type SiteRequest struct {
	Name             string  `json:"name"`
	SiteType         string  `json:"site_type"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Region           string  `json:"region"`
	City             string  `json:"city"`
	TotalConnections int     `json:"total_connections"`
	Active           *bool   `json:"active"`
}

type SiteResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	SiteType         string  `json:"site_type"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Region           string  `json:"region"`
	City             string  `json:"city"`
	TotalConnections int     `json:"total_connections"`
	Active           bool    `json:"active"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// --- Interface ---

type SiteService interface {
	ListSites(ctx context.Context, search string, offset, limit int) ([]SiteResponse, int64, error)
	ListAllSites(ctx context.Context) ([]SiteResponse, error)
	GetSite(ctx context.Context, id string) (*SiteResponse, error)
	CreateSite(ctx context.Context, req SiteRequest) (*SiteResponse, error)
	UpdateSite(ctx context.Context, id string, req SiteRequest) (*SiteResponse, error)
	DeleteSite(ctx context.Context, id string) error
}

type siteService struct {
	repo repository.RemoteSiteRepository
}

func NewSiteService(repo repository.RemoteSiteRepository) SiteService {
	return &siteService{repo: repo}
}

// --- Implementation ---

func (s *siteService) ListSites(ctx context.Context, search string, offset, limit int) ([]SiteResponse, int64, error) {
	sites, total, err := s.repo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch remote sites: %w", err)
	}

	res := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		res = append(res, toSiteResponse(site))
	}
	return res, total, nil
}

func (s *siteService) ListAllSites(ctx context.Context) ([]SiteResponse, error) {
	sites, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote sites: %w", err)
	}

	res := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		res = append(res, toSiteResponse(site))
	}
	return res, nil
}

func (s *siteService) GetSite(ctx context.Context, id string) (*SiteResponse, error) {
	siteID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("remote site")
	}

	site, err := s.repo.FindByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("remote site")
		}
		return nil, fmt.Errorf("failed to fetch remote site: %w", err)
	}

	resp := toSiteResponse(*site)
	return &resp, nil
}

func (s *siteService) CreateSite(ctx context.Context, req SiteRequest) (*SiteResponse, error) {
	if err := validateSite(req); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	site := model.RemoteSite{
		Name:             req.Name,
		SiteType:         req.SiteType,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Region:           req.Region,
		City:             req.City,
		TotalConnections: req.TotalConnections,
		Active:           active,
	}

	if err := s.repo.Create(ctx, &site); err != nil {
		return nil, fmt.Errorf("failed to create remote site: %w", err)
	}

	resp := toSiteResponse(site)
	return &resp, nil
}

func (s *siteService) UpdateSite(ctx context.Context, id string, req SiteRequest) (*SiteResponse, error) {
	siteID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("remote site")
	}

	site, err := s.repo.FindByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("remote site")
		}
		return nil, fmt.Errorf("failed to fetch remote site: %w", err)
	}

	if err := validateSite(req); err != nil {
		return nil, err
	}

	site.Name = req.Name
	site.SiteType = req.SiteType
	site.Latitude = req.Latitude
	site.Longitude = req.Longitude
	site.Region = req.Region
	site.City = req.City
	site.TotalConnections = req.TotalConnections
	if req.Active != nil {
		site.Active = *req.Active
	}

	if err := s.repo.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to update remote site: %w", err)
	}

	resp := toSiteResponse(*site)
	return &resp, nil
}

func (s *siteService) DeleteSite(ctx context.Context, id string) error {
	siteID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NotFound("remote site")
	}

	if _, err := s.repo.FindByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("remote site")
		}
		return fmt.Errorf("failed to fetch remote site: %w", err)
	}
	return s.repo.Delete(ctx, siteID)
}

func validateSite(req SiteRequest) error {
	ve := apperrors.NewValidation()

	switch {
	case req.Name == "":
		ve.Add("name", "name is required")
	case len(req.Name) > 255:
		ve.Add("name", "name must not exceed 255 characters")
	}

	if req.SiteType != model.SiteTypeAlfamart && req.SiteType != model.SiteTypeLawson {
		ve.Add("site_type", "site_type must be Alfamart or Lawson")
	}

	if req.Latitude < -90 || req.Latitude > 90 {
		ve.Add("latitude", "latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		ve.Add("longitude", "longitude must be between -180 and 180")
	}

	if req.Region == "" {
		ve.Add("region", "region is required")
	}
	if req.City == "" {
		ve.Add("city", "city is required")
	}
	if req.TotalConnections < 0 {
		ve.Add("total_connections", "total_connections must not be negative")
	}

	if ve.Any() {
		return ve
	}
	return nil
}

func toSiteResponse(site model.RemoteSite) SiteResponse {
	return SiteResponse{
		ID:               site.ID.String(),
		Name:             site.Name,
		SiteType:         site.SiteType,
		Latitude:         site.Latitude,
		Longitude:        site.Longitude,
		Region:           site.Region,
		City:             site.City,
		TotalConnections: site.TotalConnections,
		Active:           site.Active,
		CreatedAt:        site.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        site.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
