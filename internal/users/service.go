package users

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/printdesk/printdesk/internal/orders"
)

var validate = validator.New()

// ErrInvalidCredentials is returned on any authentication failure so
// callers cannot distinguish unknown accounts from wrong passwords.
var ErrInvalidCredentials = errors.New("users: invalid credentials")

// CreateUserRequest registers a staff account.
type CreateUserRequest struct {
	Email    string        `json:"email" validate:"required,email"`
	Name     string        `json:"name" validate:"required,max=255"`
	Password string        `json:"password" validate:"required,min=8"`
	Roles    []orders.Role `json:"roles" validate:"required,min=1"`
}

// Service handles staff account business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	if err := validate.Struct(req); err != nil {
		return User{}, err
	}
	for _, r := range req.Roles {
		if !r.IsValid() {
			return User{}, errors.New("users: unknown role " + string(r))
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		Email:        req.Email,
		Name:         req.Name,
		Roles:        req.Roles,
		PasswordHash: string(hash),
		IsActive:     true,
	})
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Designers lists the active design staff for assignment pickers.
func (s *Service) Designers(ctx context.Context) ([]User, error) {
	return s.repo.ListByRole(ctx, orders.RoleDesigner)
}

// DesignerName implements orders.DesignerDirectory.
func (s *Service) DesignerName(ctx context.Context, id int64) (string, bool) {
	u, err := s.repo.Get(ctx, id)
	if err != nil || !u.HasRole(orders.RoleDesigner) {
		return "", false
	}
	return u.Name, true
}

func (s *Service) UpdateRoles(ctx context.Context, id int64, roles []orders.Role) error {
	if len(roles) == 0 {
		return errors.New("users: at least one role required")
	}
	for _, r := range roles {
		if !r.IsValid() {
			return errors.New("users: unknown role " + string(r))
		}
	}
	return s.repo.UpdateRoles(ctx, id, roles)
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
