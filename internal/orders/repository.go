package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListRequest filters the order list.
type ListRequest struct {
	Status     *Status `validate:"omitempty"`
	ClientID   *int64  `validate:"omitempty,gt=0"`
	DesignerID *int64  `validate:"omitempty,gt=0"`
	ActiveOnly bool
	Limit      int `validate:"gte=0,lte=1000"`
	Offset     int `validate:"gte=0"`
}

// Repository defines order persistence. It provides the serialization
// boundary for transitions: writers must go through WithTx and lock
// the row via GetForUpdate.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListRequest) ([]Order, int, error)
	ListPayments(ctx context.Context, orderID int64) ([]PaymentRecord, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	GetForUpdate(ctx context.Context, id int64) (*Order, error)
	CreateOrder(ctx context.Context, o Order) (int64, error)
	InsertLineItem(ctx context.Context, li LineItem) (int64, error)
	DeleteLineItems(ctx context.Context, orderID int64) error
	UpdateSnapshot(ctx context.Context, o *Order) error
	AppendHistory(ctx context.Context, e HistoryEntry) (int64, error)
	InsertPayment(ctx context.Context, p PaymentRecord) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, client_id, designer_id, status, total_amount, paid_amount,
       requires_invoice, supplies_verified, design_file_ref, cancellation_reason_id,
       delivery_date, created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ClientID, &o.DesignerID, &o.Status, &o.TotalAmount, &o.PaidAmount,
		&o.RequiresInvoice, &o.SuppliesVerified, &o.DesignFileRef, &o.CancellationReasonID,
		&o.DeliveryDate, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// GetByID retrieves an order with its line items and history.
func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if o.LineItems, err = r.getLineItems(ctx, id); err != nil {
		return nil, err
	}
	if o.History, err = r.getHistory(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) getLineItems(ctx context.Context, orderID int64) ([]LineItem, error) {
	query := `
		SELECT id, order_id, product_id, description, unit_cost, quantity, line_total, line_order
		FROM order_line_items
		WHERE order_id = $1
		ORDER BY line_order, id
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.Description,
			&li.UnitCost, &li.Quantity, &li.LineTotal, &li.LineOrder); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func (r *repository) getHistory(ctx context.Context, orderID int64) ([]HistoryEntry, error) {
	query := `
		SELECT id, order_id, from_status, to_status, acting_user_id, client_approved, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus,
			&e.ActingUserID, &e.ClientApproved, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// List returns a filtered page of orders plus the total count.
func (r *repository) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if req.Status != nil {
		args = append(args, *req.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if req.ClientID != nil {
		args = append(args, *req.ClientID)
		where += fmt.Sprintf(` AND client_id = $%d`, len(args))
	}
	if req.DesignerID != nil {
		args = append(args, *req.DesignerID)
		where += fmt.Sprintf(` AND designer_id = $%d`, len(args))
	}
	if req.ActiveOnly {
		where += ` AND status NOT IN ('DELIVERED', 'CANCELLED')`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY id`
	if req.Limit > 0 {
		args = append(args, req.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		args = append(args, req.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.ClientID, &o.DesignerID, &o.Status, &o.TotalAmount, &o.PaidAmount,
			&o.RequiresInvoice, &o.SuppliesVerified, &o.DesignFileRef, &o.CancellationReasonID,
			&o.DeliveryDate, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// ListPayments returns the append-only payment ledger for an order.
func (r *repository) ListPayments(ctx context.Context, orderID int64) ([]PaymentRecord, error) {
	query := `
		SELECT id, order_id, amount, type, condition_id, notes, created_at
		FROM order_payments
		WHERE order_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentRecord
	for rows.Next() {
		var p PaymentRecord
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Type, &p.ConditionID, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetForUpdate loads and row-locks an order inside the transaction,
// serializing concurrent transition requests for the same order.
func (t *txRepository) GetForUpdate(ctx context.Context, id int64) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if o.LineItems, err = t.getLineItems(ctx, id); err != nil {
		return nil, err
	}
	if o.History, err = t.getHistory(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (t *txRepository) getLineItems(ctx context.Context, orderID int64) ([]LineItem, error) {
	query := `
		SELECT id, order_id, product_id, description, unit_cost, quantity, line_total, line_order
		FROM order_line_items
		WHERE order_id = $1
		ORDER BY line_order, id
	`
	rows, err := t.tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.Description,
			&li.UnitCost, &li.Quantity, &li.LineTotal, &li.LineOrder); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func (t *txRepository) getHistory(ctx context.Context, orderID int64) ([]HistoryEntry, error) {
	query := `
		SELECT id, order_id, from_status, to_status, acting_user_id, client_approved, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := t.tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus,
			&e.ActingUserID, &e.ClientApproved, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateOrder inserts the order head and returns the new id.
func (t *txRepository) CreateOrder(ctx context.Context, o Order) (int64, error) {
	query := `
		INSERT INTO orders (client_id, designer_id, status, total_amount, paid_amount,
		                    requires_invoice, supplies_verified, design_file_ref,
		                    delivery_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		o.ClientID, o.DesignerID, o.Status, o.TotalAmount, o.PaidAmount,
		o.RequiresInvoice, o.SuppliesVerified, o.DesignFileRef,
		o.DeliveryDate, o.CreatedBy,
	).Scan(&id)
	return id, err
}

// InsertLineItem inserts one line and returns its id.
func (t *txRepository) InsertLineItem(ctx context.Context, li LineItem) (int64, error) {
	query := `
		INSERT INTO order_line_items (order_id, product_id, description, unit_cost, quantity, line_total, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		li.OrderID, li.ProductID, li.Description, li.UnitCost, li.Quantity, li.LineTotal, li.LineOrder,
	).Scan(&id)
	return id, err
}

// DeleteLineItems removes all lines of an order before a rewrite.
func (t *txRepository) DeleteLineItems(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM order_line_items WHERE order_id = $1`, orderID)
	return err
}

// UpdateSnapshot persists the mutable head fields of a snapshot
// produced by the lifecycle machine.
func (t *txRepository) UpdateSnapshot(ctx context.Context, o *Order) error {
	query := `
		UPDATE orders
		SET designer_id = $2, status = $3, total_amount = $4, paid_amount = $5,
		    requires_invoice = $6, supplies_verified = $7, design_file_ref = $8,
		    cancellation_reason_id = $9, delivery_date = $10, updated_at = $11
		WHERE id = $1
	`
	_, err := t.tx.Exec(ctx, query,
		o.ID, o.DesignerID, o.Status, o.TotalAmount, o.PaidAmount,
		o.RequiresInvoice, o.SuppliesVerified, o.DesignFileRef,
		o.CancellationReasonID, o.DeliveryDate, o.UpdatedAt,
	)
	return err
}

// AppendHistory appends one audit entry; entries are never updated or
// deleted.
func (t *txRepository) AppendHistory(ctx context.Context, e HistoryEntry) (int64, error) {
	query := `
		INSERT INTO order_history (order_id, from_status, to_status, acting_user_id, client_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		e.OrderID, e.FromStatus, e.ToStatus, e.ActingUserID, e.ClientApproved, e.CreatedAt,
	).Scan(&id)
	return id, err
}

// InsertPayment appends one ledger row.
func (t *txRepository) InsertPayment(ctx context.Context, p PaymentRecord) error {
	query := `
		INSERT INTO order_payments (id, order_id, amount, type, condition_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.Exec(ctx, query, p.ID, p.OrderID, p.Amount, p.Type, p.ConditionID, p.Notes, p.CreatedAt)
	return err
}
