package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/printdesk/printdesk/internal/orders"
)

var validate = validator.New()

// Service manages the product catalog and serves the order module's
// pricing lookups through the cache.
type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// pricingView converts a catalog row into the shape the pricing
// engine consumes.
func pricingView(p Product) orders.Product {
	view := orders.Product{
		ID:                   p.ID,
		Name:                 p.Name,
		UnitPrice:            p.UnitPrice,
		PackagePrice:         p.PackagePrice,
		MinimumOrderQuantity: p.MinimumOrderQuantity,
		BaseProductionDays:   p.BaseProductionDays,
	}
	if p.VolumeDiscountThreshold != nil {
		view.VolumeDiscountThreshold = *p.VolumeDiscountThreshold
	}
	return view
}

// Product implements orders.CatalogLookup.
func (s *Service) Product(ctx context.Context, id int64) (orders.Product, error) {
	key, err := s.cache.BuildKey(ctx, keyProduct(id))
	if err != nil {
		return orders.Product{}, err
	}
	var p Product
	err = s.cache.FetchJSON(ctx, key, &p, func(ctx context.Context) (interface{}, error) {
		return s.repo.Get(ctx, id)
	})
	if err != nil {
		return orders.Product{}, err
	}
	return pricingView(p), nil
}

// Products implements orders.CatalogLookup for batch lookups. The
// batch goes straight to the database; per-id caching would turn one
// round trip into n.
func (s *Service) Products(ctx context.Context, ids []int64) (map[int64]orders.Product, error) {
	rows, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]orders.Product, len(rows))
	for _, p := range rows {
		if !p.IsActive {
			continue
		}
		out[p.ID] = pricingView(p)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req ProductRequest) (Product, error) {
	if err := validate.Struct(req); err != nil {
		return Product{}, err
	}
	if err := req.checkPricing(); err != nil {
		return Product{}, err
	}
	created, err := s.repo.Create(ctx, req.toProduct())
	if err != nil {
		return Product{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return Product{}, fmt.Errorf("bump catalog cache: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req ProductRequest) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := req.checkPricing(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, req.toProduct()); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}
