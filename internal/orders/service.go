package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogLookup resolves product pricing and production metadata.
type CatalogLookup interface {
	Product(ctx context.Context, id int64) (Product, error)
	Products(ctx context.Context, ids []int64) (map[int64]Product, error)
}

// ClientProfile is the order module's view of a client record,
// produced by the client directory's normalization adapter.
type ClientProfile struct {
	ID           int64
	Name         string
	TaxID        string
	TaxUsageCode string
	PostalCode   string
}

// FiscalComplete reports whether the profile carries everything an
// invoice needs.
func (c ClientProfile) FiscalComplete() bool {
	return c.TaxID != "" && c.TaxUsageCode != "" && c.PostalCode != ""
}

// ClientDirectory resolves client profiles by id.
type ClientDirectory interface {
	Profile(ctx context.Context, id int64) (*ClientProfile, error)
}

// PurchaseRequestSink receives supply requests emitted when an order
// enters design without supplies.
type PurchaseRequestSink interface {
	Submit(ctx context.Context, req PurchaseRequestEffect) error
}

// FileStore persists design assets and resolves display URLs.
type FileStore interface {
	Store(ctx context.Context, orderID int64, data []byte, filename string) (string, error)
	ResolveURL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DesignerDirectory resolves designer display names for grouping.
type DesignerDirectory interface {
	DesignerName(ctx context.Context, id int64) (string, bool)
}

// TransitionRecorder observes applied transitions, e.g. for metrics.
type TransitionRecorder interface {
	RecordTransition(from, to Status)
}

// Service orchestrates the pure lifecycle machine against the order
// repository and the external collaborators.
type Service struct {
	repo      Repository
	catalog   CatalogLookup
	clients   ClientDirectory
	sink      PurchaseRequestSink
	files     FileStore
	designers DesignerDirectory
	recorder  TransitionRecorder
	now       func() time.Time
}

// NewService constructs an order service.
func NewService(repo Repository, catalog CatalogLookup, clients ClientDirectory) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		clients: clients,
		now:     time.Now,
	}
}

// SetPurchaseRequestSink wires the procurement sink.
func (s *Service) SetPurchaseRequestSink(sink PurchaseRequestSink) { s.sink = sink }

// SetFileStore wires the design asset store.
func (s *Service) SetFileStore(store FileStore) { s.files = store }

// SetDesignerDirectory wires designer name resolution.
func (s *Service) SetDesignerDirectory(d DesignerDirectory) { s.designers = d }

// SetTransitionRecorder wires the metrics recorder.
func (s *Service) SetTransitionRecorder(r TransitionRecorder) { s.recorder = r }

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CartItem is one (product, quantity) pair in a quote request.
type CartItem struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Description string  `json:"description,omitempty" validate:"max=500"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest opens a new quote.
type CreateOrderRequest struct {
	ClientID     *int64     `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Items        []CartItem `json:"items" validate:"required,min=1,dive"`
}

// QuoteSummary is what the quoting screen shows before an order
// exists.
type QuoteSummary struct {
	Total         float64 `json:"total"`
	EstimatedDays int     `json:"estimated_days"`
}

func (s *Service) buildLineItems(ctx context.Context, items []CartItem) ([]LineItem, map[int64]Product, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.Products(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup products: %w", err)
	}

	lines := make([]LineItem, 0, len(items))
	for i, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, nil, fieldErr(ErrNotFound, "productId")
		}
		li, err := BuildLineItem(p, it.Description, it.Quantity)
		if err != nil {
			return nil, nil, err
		}
		li.LineOrder = i + 1
		lines = append(lines, li)
	}
	return lines, products, nil
}

// Create opens a new order in QUOTED with priced line items.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, createdBy int64) (*Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	lines, _, err := s.buildLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := Order{
		ClientID:     req.ClientID,
		Status:       StatusQuoted,
		TotalAmount:  Total(lines),
		DeliveryDate: req.DeliveryDate,
		CreatedBy:    createdBy,
	}

	var orderID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orderID = id
		for _, li := range lines {
			li.OrderID = id
			if _, err := tx.InsertLineItem(ctx, li); err != nil {
				return fmt.Errorf("insert line item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// Get retrieves an order by id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered page of orders.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	if err := validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}

// ListPayments returns the payment ledger of an order.
func (s *Service) ListPayments(ctx context.Context, orderID int64) ([]PaymentRecord, error) {
	return s.repo.ListPayments(ctx, orderID)
}

// RequestTransition validates and applies one status change. The
// whole step runs under a row lock so concurrent requests for the
// same order serialize; on any validation error the stored order is
// untouched.
func (s *Service) RequestTransition(ctx context.Context, orderID int64, req TransitionRequest) (*Order, error) {
	if req.At.IsZero() {
		req.At = s.now()
	}

	var res *Result
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		res, err = Apply(current, req)
		if err != nil {
			return err
		}
		if err := tx.UpdateSnapshot(ctx, res.Order); err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}
		if _, err := tx.AppendHistory(ctx, res.Entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if res.Payment != nil {
			res.Payment.ID = uuid.NewString()
			if err := tx.InsertPayment(ctx, *res.Payment); err != nil {
				return fmt.Errorf("insert payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordTransition(res.Entry.FromStatus, res.Entry.ToStatus)
	}
	if s.sink != nil {
		for _, pr := range res.PurchaseRequests {
			if err := s.sink.Submit(ctx, pr); err != nil {
				return nil, fmt.Errorf("submit purchase request: %w", err)
			}
		}
	}
	return s.repo.GetByID(ctx, orderID)
}

// OpenForDesign is the designer's "open order" hook. It fires the
// one-time auto-advance to DESIGN_IN_PROGRESS when applicable and
// returns the (possibly advanced) order. The check-and-fire runs
// atomically under the row lock.
func (s *Service) OpenForDesign(ctx context.Context, orderID int64, actor ActingUser) (*Order, error) {
	var res *Result
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		applied, fired, err := OnOpen(current, actor, s.now())
		if err != nil || !fired {
			return err
		}
		res = applied
		if err := tx.UpdateSnapshot(ctx, res.Order); err != nil {
			return fmt.Errorf("update snapshot: %w", err)
		}
		if _, err := tx.AppendHistory(ctx, res.Entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res != nil && s.recorder != nil {
		s.recorder.RecordTransition(res.Entry.FromStatus, res.Entry.ToStatus)
	}
	return s.repo.GetByID(ctx, orderID)
}

// RecordPayment appends a later installment against an order that
// already left Quoted. The first payment always travels with the
// Quoted->Paid transition so its plan preconditions apply; from then
// on installments accumulate here until the balance closes. Runs
// under the row lock like a transition.
func (s *Service) RecordPayment(ctx context.Context, orderID int64, actor ActingUser, input PaymentInput) (*Order, error) {
	if !actor.HasAny(RoleCounter, RoleFinance) {
		return nil, fieldErr(ErrRoleNotPermitted, "payment")
	}
	if !input.Plan.IsValid() {
		return nil, fieldErr(ErrPreconditionNotMet, "planType")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fieldErr(ErrOrderImmutable, "payment")
		}
		if current.Status == StatusQuoted {
			return fieldErr(ErrPreconditionNotMet, "status")
		}
		if err := ValidatePaymentAmount(current.TotalAmount, current.PaidAmount, input.Amount); err != nil {
			return err
		}
		now := s.now()
		record := PaymentRecord{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			Amount:      round2(input.Amount),
			Type:        input.Plan,
			ConditionID: input.ConditionID,
			Notes:       input.Notes,
			CreatedAt:   now,
		}
		if err := tx.InsertPayment(ctx, record); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		current.PaidAmount = round2(current.PaidAmount + input.Amount)
		current.UpdatedAt = now
		return tx.UpdateSnapshot(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// ReplaceLineItems rewrites the cart of a non-terminal order and
// recomputes the derived total.
func (s *Service) ReplaceLineItems(ctx context.Context, orderID int64, items []CartItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyLineItems
	}
	lines, _, err := s.buildLineItems(ctx, items)
	if err != nil {
		return nil, err
	}
	newTotal := Total(lines)

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fieldErr(ErrOrderImmutable, "lineItems")
		}
		if current.PaidAmount > newTotal+amountEpsilon {
			return fieldErr(ErrAmountExceedsBalance, "totalAmount")
		}
		if err := tx.DeleteLineItems(ctx, orderID); err != nil {
			return fmt.Errorf("delete line items: %w", err)
		}
		for _, li := range lines {
			li.OrderID = orderID
			if _, err := tx.InsertLineItem(ctx, li); err != nil {
				return fmt.Errorf("insert line item: %w", err)
			}
		}
		current.TotalAmount = newTotal
		current.UpdatedAt = s.now()
		return tx.UpdateSnapshot(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// AssignDesigner sets the designer working the order.
func (s *Service) AssignDesigner(ctx context.Context, orderID, designerID int64, actor ActingUser) (*Order, error) {
	if !actor.HasAny(RoleCounter, RoleDesigner) {
		return nil, fieldErr(ErrRoleNotPermitted, "designerId")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fieldErr(ErrOrderImmutable, "designerId")
		}
		current.DesignerID = &designerID
		current.UpdatedAt = s.now()
		return tx.UpdateSnapshot(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// SetInvoiceRequested marks the order for invoicing after verifying
// the client's fiscal profile is complete.
func (s *Service) SetInvoiceRequested(ctx context.Context, orderID int64, requested bool) (*Order, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fieldErr(ErrOrderImmutable, "requiresInvoice")
		}
		if requested {
			if current.ClientID == nil {
				return fieldErr(ErrMissingFiscalData, "clientId")
			}
			profile, err := s.clients.Profile(ctx, *current.ClientID)
			if err != nil {
				return fmt.Errorf("lookup client: %w", err)
			}
			if profile == nil || !profile.FiscalComplete() {
				return fieldErr(ErrMissingFiscalData, "taxId")
			}
		}
		current.RequiresInvoice = requested
		current.UpdatedAt = s.now()
		return tx.UpdateSnapshot(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// AttachDesignFile stores the uploaded asset and records its ref on
// the order. The ref later satisfies the print gate.
func (s *Service) AttachDesignFile(ctx context.Context, orderID int64, data []byte, filename string) (*Order, error) {
	if s.files == nil {
		return nil, fmt.Errorf("file store not configured")
	}
	ref, err := s.files.Store(ctx, orderID, data, filename)
	if err != nil {
		return nil, fmt.Errorf("store design file: %w", err)
	}
	var previous string
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fieldErr(ErrOrderImmutable, "designFileRef")
		}
		if current.DesignFileRef != nil {
			previous = *current.DesignFileRef
		}
		current.DesignFileRef = &ref
		current.UpdatedAt = s.now()
		return tx.UpdateSnapshot(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	// Release the superseded asset once the new ref is committed. The
	// placeholder marker never maps to a stored object.
	if previous != "" && previous != placeholderFileRef && previous != ref {
		_ = s.files.Delete(ctx, previous)
	}
	return s.repo.GetByID(ctx, orderID)
}

// ComputeQuoteSummary prices a cart without creating an order.
func (s *Service) ComputeQuoteSummary(ctx context.Context, items []CartItem) (*QuoteSummary, error) {
	lines, products, err := s.buildLineItems(ctx, items)
	if err != nil {
		return nil, err
	}
	return &QuoteSummary{
		Total:         Total(lines),
		EstimatedDays: EstimateProductionDays(lines, products),
	}, nil
}

// ComputePaymentSuggestion returns the suggested amount for a plan.
func (s *Service) ComputePaymentSuggestion(plan PlanType, total, paid float64) (float64, error) {
	return SuggestAmount(plan, total, paid)
}

// DesignerQueue returns a designer's work list, corrections first
// then FIFO.
func (s *Service) DesignerQueue(ctx context.Context, designerID int64) ([]Order, error) {
	list, _, err := s.repo.List(ctx, ListRequest{DesignerID: &designerID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return SortForDesignerQueue(list), nil
}

// GroupedByDesigner builds the designer workload tree for the list
// screens.
func (s *Service) GroupedByDesigner(ctx context.Context) ([]DesignerGroup, error) {
	list, _, err := s.repo.List(ctx, ListRequest{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	resolve := func(id int64) (string, bool) { return "", false }
	if s.designers != nil {
		resolve = func(id int64) (string, bool) { return s.designers.DesignerName(ctx, id) }
	}
	return GroupByDesigner(list, resolve), nil
}

// DesignFileURL resolves the display URL of the attached asset.
func (s *Service) DesignFileURL(ctx context.Context, orderID int64) (string, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if o.DesignFileRef == nil || *o.DesignFileRef == "" || s.files == nil {
		return "", nil
	}
	return s.files.ResolveURL(ctx, *o.DesignFileRef)
}
