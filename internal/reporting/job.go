package reporting

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/printdesk/printdesk/internal/jobs"
)

// WarmupJob precomputes the register summary after close of day.
type WarmupJob struct {
	service *Service
	logger  *slog.Logger
	metrics *jobs.Metrics
}

func NewWarmupJob(service *Service, logger *slog.Logger, metrics *jobs.Metrics) *WarmupJob {
	return &WarmupJob{service: service, logger: logger, metrics: metrics}
}

func (j *WarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("register_warmup")

	var payload jobs.RegisterWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger.Error("register warmup payload", slog.Any("error", err))
		return tracker.End(asynq.SkipRetry)
	}
	if err := j.service.Warmup(ctx, payload.Day); err != nil {
		j.logger.Error("register warmup", slog.String("day", payload.Day), slog.Any("error", err))
		return tracker.End(err)
	}
	return tracker.End(nil)
}
