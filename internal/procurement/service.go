package procurement

import (
	"context"
	"fmt"
)

// Service manages the supply purchase queue.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, pr PurchaseRequest) (PurchaseRequest, error) {
	if pr.OrderID <= 0 || pr.ProductID <= 0 {
		return PurchaseRequest{}, fmt.Errorf("procurement: order and product ids required")
	}
	if pr.Quantity <= 0 {
		return PurchaseRequest{}, fmt.Errorf("procurement: quantity must be positive")
	}
	pr.Status = PRStatusPending
	return s.repo.Create(ctx, pr)
}

func (s *Service) Get(ctx context.Context, id int64) (PurchaseRequest, error) {
	if id <= 0 {
		return PurchaseRequest{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]PurchaseRequest, error) {
	if filters.Limit <= 0 {
		filters.Limit = 100
	}
	return s.repo.List(ctx, filters)
}

// Move advances a request through its lifecycle.
func (s *Service) Move(ctx context.Context, id int64, to PRStatus) error {
	pr, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanMove(pr.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, pr.Status, to)
	}
	return s.repo.UpdateStatus(ctx, id, to)
}
