package procurement

import (
	"errors"
	"time"
)

// Purchase request lifecycle statuses.
type PRStatus string

const (
	PRStatusPending  PRStatus = "PENDING"
	PRStatusOrdered  PRStatus = "ORDERED"
	PRStatusReceived PRStatus = "RECEIVED"
	PRStatusClosed   PRStatus = "CLOSED"
)

var prTransitions = map[PRStatus][]PRStatus{
	PRStatusPending:  {PRStatusOrdered, PRStatusClosed},
	PRStatusOrdered:  {PRStatusReceived, PRStatusClosed},
	PRStatusReceived: {PRStatusClosed},
}

// ErrInvalidStatusChange is returned for a status change the lifecycle
// does not allow.
var ErrInvalidStatusChange = errors.New("procurement: invalid status change")

// CanMove reports whether a request may move from one status to
// another.
func CanMove(from, to PRStatus) bool {
	for _, allowed := range prTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PurchaseRequest is one supply line the workshop needs to buy before
// an order can be produced.
type PurchaseRequest struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	ProductID   int64     `json:"product_id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Status      PRStatus  `json:"status"`
	RequestedBy int64     `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
