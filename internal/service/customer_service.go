package service

import (
	"context"
	"errors"
	"fmt"

	"netadmin/internal/apperrors"
	"netadmin/internal/model"
	"netadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PackageName string `json:"package_name"`
	MonthlyFee  string `json:"monthly_fee"` // decimal string, e.g. "350000.00"
	Status      string `json:"status"`
	SiteID      string `json:"site_id"`
}

type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	PackageName string          `json:"package_name"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	Status      string          `json:"status"`
	SiteID      *string         `json:"site_id"`
	SiteName    string          `json:"site_name,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// --- Interface ---

type CustomerService interface {
	ListCustomers(ctx context.Context, search string, offset, limit int) ([]CustomerResponse, int64, error)
	GetCustomer(ctx context.Context, id string) (*CustomerResponse, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	repo     repository.CustomerRepository
	siteRepo repository.RemoteSiteRepository
}

func NewCustomerService(repo repository.CustomerRepository, siteRepo repository.RemoteSiteRepository) CustomerService {
	return &customerService{repo: repo, siteRepo: siteRepo}
}

// --- Implementation ---

func (s *customerService) ListCustomers(ctx context.Context, search string, offset, limit int) ([]CustomerResponse, int64, error) {
	customers, total, err := s.repo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	res := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		res = append(res, toCustomerResponse(c))
	}
	return res, total, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("customer")
	}

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	resp := toCustomerResponse(*customer)
	return &resp, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	if req.Status == "" {
		req.Status = model.CustomerStatusActive
	}

	fee, siteID, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	customer := model.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		PackageName: req.PackageName,
		MonthlyFee:  fee,
		Status:      req.Status,
		SiteID:      siteID,
	}

	if err := s.repo.Create(ctx, &customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	created, err := s.repo.FindByID(ctx, customer.ID)
	if err != nil {
		resp := toCustomerResponse(customer)
		return &resp, nil
	}
	resp := toCustomerResponse(*created)
	return &resp, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("customer")
	}

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	fee, siteID, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Address = req.Address
	customer.PackageName = req.PackageName
	customer.MonthlyFee = fee
	customer.Status = req.Status
	customer.SiteID = siteID
	customer.Site = nil

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	updated, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		resp := toCustomerResponse(*customer)
		return &resp, nil
	}
	resp := toCustomerResponse(*updated)
	return &resp, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NotFound("customer")
	}

	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("customer")
		}
		return fmt.Errorf("failed to fetch customer: %w", err)
	}
	return s.repo.Delete(ctx, customerID)
}

func (s *customerService) validate(ctx context.Context, req CustomerRequest) (decimal.Decimal, *uuid.UUID, error) {
	ve := apperrors.NewValidation()

	switch {
	case req.Name == "":
		ve.Add("name", "name is required")
	case len(req.Name) > 255:
		ve.Add("name", "name must not exceed 255 characters")
	}

	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		ve.Add("email", "email format is invalid")
	}

	if req.PackageName == "" {
		ve.Add("package_name", "package_name is required")
	}

	fee := decimal.Zero
	if req.MonthlyFee == "" {
		ve.Add("monthly_fee", "monthly_fee is required")
	} else {
		parsed, err := decimal.NewFromString(req.MonthlyFee)
		switch {
		case err != nil:
			ve.Add("monthly_fee", "monthly_fee must be a valid amount")
		case parsed.IsNegative():
			ve.Add("monthly_fee", "monthly_fee must not be negative")
		default:
			fee = parsed
		}
	}

	if req.Status != model.CustomerStatusActive && req.Status != model.CustomerStatusSuspended {
		ve.Add("status", "status must be active or suspended")
	}

	var siteID *uuid.UUID
	if req.SiteID != "" {
		parsed, err := uuid.Parse(req.SiteID)
		if err != nil {
			ve.Add("site_id", "selected site is invalid")
		} else if _, err := s.siteRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ve.Add("site_id", "selected site does not exist")
			} else {
				return fee, nil, fmt.Errorf("failed to check site: %w", err)
			}
		} else {
			siteID = &parsed
		}
	}

	if ve.Any() {
		return fee, nil, ve
	}
	return fee, siteID, nil
}

func toCustomerResponse(c model.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Email:       c.Email,
		Address:     c.Address,
		PackageName: c.PackageName,
		MonthlyFee:  c.MonthlyFee,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   c.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if c.SiteID != nil {
		id := c.SiteID.String()
		resp.SiteID = &id
	}
	if c.Site != nil {
		resp.SiteName = c.Site.Name
	}
	return resp
}
