package procurement

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/printdesk/printdesk/internal/jobs"
)

// Job processes queued purchase request tasks on the worker.
type Job struct {
	service *Service
	logger  *slog.Logger
	metrics *jobs.Metrics
}

func NewJob(service *Service, logger *slog.Logger, metrics *jobs.Metrics) *Job {
	return &Job{service: service, logger: logger, metrics: metrics}
}

// Handle persists one purchase request payload.
func (j *Job) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("purchase_request")

	var payload jobs.PurchaseRequestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger.Error("purchase request payload", slog.Any("error", err))
		return tracker.End(asynq.SkipRetry)
	}

	pr, err := j.service.Record(ctx, PurchaseRequest{
		OrderID:     payload.OrderID,
		ProductID:   payload.ProductID,
		Description: payload.Note,
		Quantity:    payload.Quantity,
		RequestedBy: payload.RequestedBy,
	})
	if err != nil {
		j.logger.Error("record purchase request",
			slog.Int64("order_id", payload.OrderID),
			slog.Any("error", err))
		return tracker.End(err)
	}

	j.logger.Info("purchase request recorded",
		slog.Int64("id", pr.ID),
		slog.Int64("order_id", pr.OrderID))
	return tracker.End(nil)
}
