package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dayLayout = "2006-01-02"

// Service builds the daily register summary, caching finished days
// forever and the current day briefly.
type Service struct {
	repo    Repository
	cache   *redis.Client
	ttl     time.Duration
	printer *message.Printer
	unit    currency.Unit
	now     func() time.Time
}

func NewService(repo Repository, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		printer: message.NewPrinter(language.LatinAmericanSpanish),
		unit:    currency.MXN,
		now:     time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *Service) formatAmount(v float64) string {
	return s.printer.Sprint(currency.Symbol(s.unit.Amount(v)))
}

func cacheKey(day string) string {
	return "reporting:register:" + day
}

// RegisterForDay builds the summary for one local day. day uses the
// YYYY-MM-DD layout; empty means today.
func (s *Service) RegisterForDay(ctx context.Context, day string) (*RegisterSummary, error) {
	now := s.now()
	if day == "" {
		day = now.Format(dayLayout)
	}
	start, err := time.ParseInLocation(dayLayout, day, now.Location())
	if err != nil {
		return nil, fmt.Errorf("reporting: parse day %q: %w", day, err)
	}

	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, cacheKey(day)).Bytes(); err == nil {
			var cached RegisterSummary
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.build(ctx, day, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		ttl := s.ttl
		if start.Add(24 * time.Hour).Before(now) {
			// Finished days never change.
			ttl = 0
		}
		if raw, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, cacheKey(day), raw, ttl).Err()
		}
	}
	return summary, nil
}

// Warmup precomputes and caches the summary, used by the nightly job.
func (s *Service) Warmup(ctx context.Context, day string) error {
	if s.cache == nil {
		return nil
	}
	if day == "" {
		day = s.now().Format(dayLayout)
	}
	if err := s.cache.Del(ctx, cacheKey(day)).Err(); err != nil {
		return err
	}
	_, err := s.RegisterForDay(ctx, day)
	return err
}

func (s *Service) build(ctx context.Context, day string, from, to time.Time) (*RegisterSummary, error) {
	rows, err := s.repo.PaymentsByPlan(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporting: payments by plan: %w", err)
	}
	counts, err := s.repo.MovementCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporting: movement counts: %w", err)
	}

	summary := &RegisterSummary{
		Day:            day,
		OrdersOpened:   counts.Opened,
		OrdersDelivery: counts.Delivered,
		OrdersCanceled: counts.Cancelled,
		GeneratedAt:    s.now(),
	}
	for _, row := range rows {
		summary.Payments = append(summary.Payments, PlanBreakdown{
			Plan:      row.Plan,
			Count:     row.Count,
			Total:     row.Total,
			Formatted: s.formatAmount(row.Total),
		})
		summary.TotalCollected += row.Total
	}
	summary.Formatted = s.formatAmount(summary.TotalCollected)
	return summary, nil
}
