package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"netadmin/internal/apperrors"
	"netadmin/internal/middleware"
	"netadmin/internal/model"
	"netadmin/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	RoleID               string `json:"role_id"`
	Status               string `json:"status"`
}

type UpdateUserRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	RoleID               string `json:"role_id"`
	Status               string `json:"status"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// UserRoleResponse is the role summary embedded in a user row.
type UserRoleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DTO for returning User without exposing sensitive data (e.g. password hash)
type UserResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	RoleID    *string           `json:"role_id"`
	Role      *UserRoleResponse `json:"role"`
	Status    string            `json:"status"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// UserListResult is one page of users plus the full role set for the
// caller's role-selector dropdown.
type UserListResult struct {
	Users []UserResponse
	Total int64
	Roles []RoleResponse
}

// UserService defines the interface for business logic related to User
type UserService interface {
	ListUsers(ctx context.Context, search string, offset, limit int) (*UserListResult, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error

	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type userService struct {
	repo     repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{repo: repo, roleRepo: roleRepo}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if user.RoleID != nil {
		id := user.RoleID.String()
		resp.RoleID = &id
	}
	if user.Role != nil {
		resp.Role = &UserRoleResponse{ID: user.Role.ID.String(), Name: user.Role.Name}
	}
	return resp
}

func (s *userService) ListUsers(ctx context.Context, search string, offset, limit int) (*UserListResult, error) {
	users, total, err := s.repo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	roles, err := s.roleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	result := &UserListResult{Total: total}
	result.Users = make([]UserResponse, 0, len(users))
	for i := range users {
		result.Users = append(result.Users, *mapToResponse(&users[i]))
	}
	result.Roles = make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		result.Roles = append(result.Roles, toRoleResponse(r))
	}
	return result, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("user")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return mapToResponse(user), nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if req.Status == "" {
		req.Status = model.UserStatusActive
	}

	roleID, err := s.validate(ctx, userFields{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		RoleID:               req.RoleID,
		Status:               req.Status,
		PasswordProvided:     true,
	}, nil)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		RoleID:   roleID,
		Status:   req.Status,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a concurrent insert race at the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Validation("email", "email has already been taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return mapToResponse(user), nil
	}
	return mapToResponse(created), nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound("user")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	// Blank password fields mean "keep the current hash".
	passwordProvided := req.Password != "" || req.PasswordConfirmation != ""

	roleID, err := s.validate(ctx, userFields{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		RoleID:               req.RoleID,
		Status:               req.Status,
		PasswordProvided:     passwordProvided,
	}, &userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	user.RoleID = roleID
	user.Role = nil
	user.Status = req.Status

	if passwordProvided {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Validation("email", "email has already been taken")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return mapToResponse(user), nil
	}
	return mapToResponse(updated), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NotFound("user")
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	return s.repo.Delete(ctx, userID)
}

// userFields carries the submitted values through validation.
type userFields struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	RoleID               string
	Status               string
	PasswordProvided     bool
}

// validate applies the user field rules and resolves the role reference.
// excludeID skips the record being updated in the email uniqueness check.
func (s *userService) validate(ctx context.Context, f userFields, excludeID *uuid.UUID) (*uuid.UUID, error) {
	ve := apperrors.NewValidation()

	switch {
	case f.Name == "":
		ve.Add("name", "name is required")
	case len(f.Name) > 255:
		ve.Add("name", "name must not exceed 255 characters")
	}

	switch {
	case f.Email == "":
		ve.Add("email", "email is required")
	case len(f.Email) > 255:
		ve.Add("email", "email must not exceed 255 characters")
	case !emailRegex.MatchString(f.Email):
		ve.Add("email", "email format is invalid")
	default:
		count, err := s.repo.CountByEmail(ctx, f.Email, excludeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			ve.Add("email", "email has already been taken")
		}
	}

	rules := PasswordRules(f.PasswordProvided)
	if field, message, ok := checkPasswordRules(rules, f.Password, f.PasswordConfirmation); !ok {
		ve.Add(field, message)
	}

	var roleID *uuid.UUID
	if f.RoleID != "" {
		parsed, err := uuid.Parse(f.RoleID)
		if err != nil {
			ve.Add("role_id", "selected role is invalid")
		} else if _, err := s.roleRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ve.Add("role_id", "selected role does not exist")
			} else {
				return nil, fmt.Errorf("failed to check role: %w", err)
			}
		} else {
			roleID = &parsed
		}
	}

	if f.Status != model.UserStatusActive && f.Status != model.UserStatusInactive {
		ve.Add("status", "status must be active or inactive")
	}

	if ve.Any() {
		return nil, ve
	}
	return roleID, nil
}

// --- Authentication ---

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": roleName,
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})

	// Same secret the auth middleware verifies with.
	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Expired tokens are rejected on use anyway; purging them on each
	// issuance keeps the table bounded.
	if err := s.repo.DeleteExpiredRefreshTokens(ctx); err != nil {
		return nil, fmt.Errorf("failed to purge expired refresh tokens: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.repo.StoreRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh.Token}, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.repo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, stored.Token)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	// Rotate: the old token is single-use.
	if err := s.repo.DeleteRefreshToken(ctx, stored.Token); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}
