package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/printdesk/printdesk/internal/orders"
)

type memoryRepo struct {
	rows   map[int64]PurchaseRequest
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]PurchaseRequest)}
}

func (r *memoryRepo) Create(_ context.Context, pr PurchaseRequest) (PurchaseRequest, error) {
	r.nextID++
	pr.ID = r.nextID
	pr.CreatedAt = time.Now()
	pr.UpdatedAt = pr.CreatedAt
	r.rows[pr.ID] = pr
	return pr, nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (PurchaseRequest, error) {
	pr, ok := r.rows[id]
	if !ok {
		return PurchaseRequest{}, ErrNotFound
	}
	return pr, nil
}

func (r *memoryRepo) List(_ context.Context, filters ListFilters) ([]PurchaseRequest, error) {
	var out []PurchaseRequest
	for id := int64(1); id <= r.nextID; id++ {
		pr, ok := r.rows[id]
		if !ok {
			continue
		}
		if filters.OrderID != nil && pr.OrderID != *filters.OrderID {
			continue
		}
		if filters.Status != nil && pr.Status != *filters.Status {
			continue
		}
		out = append(out, pr)
	}
	return out, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id int64, status PRStatus) error {
	pr, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	pr.Status = status
	pr.UpdatedAt = time.Now()
	r.rows[id] = pr
	return nil
}

func TestRecordAndMove(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	pr, err := svc.Record(ctx, PurchaseRequest{
		OrderID:     10,
		ProductID:   7,
		Description: "Lona 2x1",
		Quantity:    5,
		RequestedBy: 3,
	})
	require.NoError(t, err)
	require.Equal(t, PRStatusPending, pr.Status)
	require.NotZero(t, pr.ID)

	require.NoError(t, svc.Move(ctx, pr.ID, PRStatusOrdered))
	require.NoError(t, svc.Move(ctx, pr.ID, PRStatusReceived))
	require.NoError(t, svc.Move(ctx, pr.ID, PRStatusClosed))

	got, err := svc.Get(ctx, pr.ID)
	require.NoError(t, err)
	require.Equal(t, PRStatusClosed, got.Status)
}

func TestRecordValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Record(ctx, PurchaseRequest{OrderID: 10, ProductID: 7})
	require.Error(t, err)

	_, err = svc.Record(ctx, PurchaseRequest{ProductID: 7, Quantity: 1})
	require.Error(t, err)
}

func TestMoveRejectsInvalidChange(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	pr, err := svc.Record(ctx, PurchaseRequest{OrderID: 10, ProductID: 7, Quantity: 1})
	require.NoError(t, err)

	// Pending requests cannot skip straight to received, and closed
	// requests never move again.
	err = svc.Move(ctx, pr.ID, PRStatusReceived)
	require.ErrorIs(t, err, ErrInvalidStatusChange)

	require.NoError(t, svc.Move(ctx, pr.ID, PRStatusClosed))
	err = svc.Move(ctx, pr.ID, PRStatusOrdered)
	require.ErrorIs(t, err, ErrInvalidStatusChange)
}

func TestMoveUnknownID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	err := svc.Move(context.Background(), 99, PRStatusOrdered)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectSinkRecords(t *testing.T) {
	repo := newMemoryRepo()
	sink := NewDirectSink(NewService(repo))
	ctx := context.Background()

	err := sink.Submit(ctx, orders.PurchaseRequestEffect{
		OrderID:     10,
		ProductID:   7,
		Quantity:    5,
		Note:        "Vinil brillante",
		RequestedBy: 3,
	})
	require.NoError(t, err)

	list, err := repo.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Vinil brillante", list[0].Description)
	require.Equal(t, PRStatusPending, list[0].Status)
}
