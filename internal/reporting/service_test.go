package reporting

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/printdesk/printdesk/internal/orders"
)

type mockRepo struct {
	rows      []PlanRow
	counts    StatusCounts
	planCalls int
}

func (m *mockRepo) PaymentsByPlan(ctx context.Context, from, to time.Time) ([]PlanRow, error) {
	m.planCalls++
	return m.rows, nil
}

func (m *mockRepo) MovementCounts(ctx context.Context, from, to time.Time) (StatusCounts, error) {
	return m.counts, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(repo, client, time.Minute)
	svc.WithNow(func() time.Time {
		return time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	})
	return svc
}

func TestRegisterForDayAggregates(t *testing.T) {
	repo := &mockRepo{
		rows: []PlanRow{
			{Plan: orders.PlanSingle, Count: 4, Total: 5200},
			{Plan: orders.PlanAdvance, Count: 2, Total: 1500.5},
		},
		counts: StatusCounts{Opened: 6, Delivered: 3, Cancelled: 1},
	}
	svc := newTestService(t, repo)

	summary, err := svc.RegisterForDay(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Day != "2025-03-10" {
		t.Fatalf("expected today's summary, got %s", summary.Day)
	}
	if summary.TotalCollected != 6700.5 {
		t.Fatalf("expected total 6700.5, got %.2f", summary.TotalCollected)
	}
	if len(summary.Payments) != 2 {
		t.Fatalf("expected 2 plan rows, got %d", len(summary.Payments))
	}
	if summary.Formatted == "" {
		t.Fatalf("expected formatted total")
	}
	if summary.OrdersDelivery != 3 || summary.OrdersCanceled != 1 {
		t.Fatalf("unexpected movement counts: %+v", summary)
	}
}

func TestRegisterForDayCaches(t *testing.T) {
	repo := &mockRepo{rows: []PlanRow{{Plan: orders.PlanSingle, Count: 1, Total: 100}}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.RegisterForDay(ctx, "2025-03-09"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RegisterForDay(ctx, "2025-03-09"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.planCalls != 1 {
		t.Fatalf("expected cached second read, repo called %d times", repo.planCalls)
	}
}

func TestRegisterForDayRejectsBadDay(t *testing.T) {
	svc := newTestService(t, &mockRepo{})
	if _, err := svc.RegisterForDay(context.Background(), "10/03/2025"); err == nil {
		t.Fatalf("expected parse error")
	}
}
