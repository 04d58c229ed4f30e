package procurement

import (
	"context"
	"fmt"

	"github.com/printdesk/printdesk/internal/jobs"
	"github.com/printdesk/printdesk/internal/orders"
)

// QueueSink submits supply requests through the job queue so the
// order transition never waits on procurement persistence.
type QueueSink struct {
	client *jobs.Client
}

func NewQueueSink(client *jobs.Client) *QueueSink {
	return &QueueSink{client: client}
}

// Submit implements orders.PurchaseRequestSink.
func (s *QueueSink) Submit(ctx context.Context, req orders.PurchaseRequestEffect) error {
	_, err := s.client.EnqueuePurchaseRequest(ctx, jobs.PurchaseRequestPayload{
		OrderID:     req.OrderID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Note:        req.Note,
		RequestedBy: req.RequestedBy,
	})
	if err != nil {
		return fmt.Errorf("enqueue purchase request: %w", err)
	}
	return nil
}

// DirectSink persists supply requests synchronously. Used in tests
// and when no queue is configured.
type DirectSink struct {
	service *Service
}

func NewDirectSink(service *Service) *DirectSink {
	return &DirectSink{service: service}
}

// Submit implements orders.PurchaseRequestSink.
func (s *DirectSink) Submit(ctx context.Context, req orders.PurchaseRequestEffect) error {
	_, err := s.service.Record(ctx, PurchaseRequest{
		OrderID:     req.OrderID,
		ProductID:   req.ProductID,
		Description: req.Note,
		Quantity:    req.Quantity,
		RequestedBy: req.RequestedBy,
	})
	return err
}
