package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPurchaseRequest persists a supply request raised by an order
	// entering design without verified supplies.
	TaskPurchaseRequest = "procurement:purchase_request"
	// TaskRegisterWarmup precomputes the daily register report.
	TaskRegisterWarmup = "reporting:register_warmup"
)

// PurchaseRequestPayload carries one supply line to the worker.
type PurchaseRequestPayload struct {
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    float64 `json:"quantity"`
	Note        string  `json:"note,omitempty"`
	RequestedBy int64   `json:"requested_by"`
}

// NewPurchaseRequestTask constructs an Asynq task.
func NewPurchaseRequestTask(payload PurchaseRequestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurchaseRequest, data), nil
}

// RegisterWarmupPayload names the day to precompute, YYYY-MM-DD.
// Empty means today.
type RegisterWarmupPayload struct {
	Day string `json:"day,omitempty"`
}

// NewRegisterWarmupTask constructs an Asynq task.
func NewRegisterWarmupTask(payload RegisterWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRegisterWarmup, data), nil
}
