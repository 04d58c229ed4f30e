package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/printdesk/printdesk/internal/orders"
)

var validate = validator.New()

// ClientRequest creates or updates a client.
type ClientRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	TaxID        string `json:"tax_id,omitempty" validate:"omitempty,max=20"`
	TaxUsageCode string `json:"tax_usage_code,omitempty" validate:"omitempty,max=10"`
	PostalCode   string `json:"postal_code,omitempty" validate:"omitempty,max=10"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r ClientRequest) toClient() Client {
	return Client{
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		TaxID:        r.TaxID,
		TaxUsageCode: r.TaxUsageCode,
		PostalCode:   r.PostalCode,
		Notes:        r.Notes,
	}
}

// Service manages client accounts and answers the order module's
// fiscal profile lookups.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile implements orders.ClientDirectory.
func (s *Service) Profile(ctx context.Context, id int64) (*orders.ClientProfile, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &orders.ClientProfile{
		ID:           c.ID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		TaxUsageCode: c.TaxUsageCode,
		PostalCode:   c.PostalCode,
	}, nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Client, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Client, error) {
	if id <= 0 {
		return Client{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req ClientRequest) (Client, error) {
	if err := validate.Struct(req); err != nil {
		return Client{}, err
	}
	return s.repo.Create(ctx, req.toClient())
}

func (s *Service) Update(ctx context.Context, id int64, req ClientRequest) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, req.toClient())
}

// Import normalizes and stores a batch of raw legacy records. Records
// without a name are skipped and reported in the result.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (s *Service) Import(ctx context.Context, records []map[string]any) (ImportResult, error) {
	var res ImportResult
	for i, raw := range records {
		c := NormalizeRecord(raw)
		if c.Name == "" {
			res.Skipped++
			continue
		}
		if _, err := s.repo.Create(ctx, c); err != nil {
			return res, fmt.Errorf("import record %d: %w", i, err)
		}
		res.Imported++
	}
	return res, nil
}
