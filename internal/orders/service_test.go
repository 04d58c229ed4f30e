package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// memRepo is an in-memory Repository. Snapshots, lines, history and
// payments live in separate maps so the read path assembles orders
// the same way the pg repository does.
type memRepo struct {
	orders   map[int64]*Order
	lines    map[int64][]LineItem
	history  map[int64][]HistoryEntry
	payments map[int64][]PaymentRecord
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:   map[int64]*Order{},
		lines:    map[int64][]LineItem{},
		history:  map[int64][]HistoryEntry{},
		payments: map[int64][]PaymentRecord{},
	}
}

func (m *memRepo) seed(o Order, lines ...LineItem) int64 {
	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = &o
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	m.lines[o.ID] = lines
	return o.ID
}

func (m *memRepo) assemble(id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o.Clone()
	cp.LineItems = append([]LineItem(nil), m.lines[id]...)
	cp.History = append([]HistoryEntry(nil), m.history[id]...)
	return cp, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	return m.assemble(id)
}

func (m *memRepo) List(_ context.Context, req ListRequest) ([]Order, int, error) {
	var out []Order
	for id := int64(1); id <= m.nextID; id++ {
		o, err := m.assemble(id)
		if err != nil {
			continue
		}
		if req.Status != nil && o.Status != *req.Status {
			continue
		}
		if req.DesignerID != nil && (o.DesignerID == nil || *o.DesignerID != *req.DesignerID) {
			continue
		}
		if req.ActiveOnly && o.Status.IsTerminal() {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *memRepo) ListPayments(_ context.Context, orderID int64) ([]PaymentRecord, error) {
	return append([]PaymentRecord(nil), m.payments[orderID]...), nil
}

func (m *memRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	// No rollback emulation; tests assert the service fails before
	// any write happens on the invalid paths.
	return fn(ctx, (*memTx)(m))
}

type memTx memRepo

func (t *memTx) GetForUpdate(_ context.Context, id int64) (*Order, error) {
	return (*memRepo)(t).assemble(id)
}

func (t *memTx) CreateOrder(_ context.Context, o Order) (int64, error) {
	t.nextID++
	o.ID = t.nextID
	t.orders[o.ID] = &o
	return o.ID, nil
}

func (t *memTx) InsertLineItem(_ context.Context, li LineItem) (int64, error) {
	li.ID = int64(len(t.lines[li.OrderID]) + 1)
	t.lines[li.OrderID] = append(t.lines[li.OrderID], li)
	return li.ID, nil
}

func (t *memTx) DeleteLineItems(_ context.Context, orderID int64) error {
	t.lines[orderID] = nil
	return nil
}

func (t *memTx) UpdateSnapshot(_ context.Context, o *Order) error {
	if _, ok := t.orders[o.ID]; !ok {
		return ErrNotFound
	}
	cp := o.Clone()
	cp.LineItems = nil
	cp.History = nil
	t.orders[o.ID] = cp
	return nil
}

func (t *memTx) AppendHistory(_ context.Context, e HistoryEntry) (int64, error) {
	e.ID = int64(len(t.history[e.OrderID]) + 1)
	t.history[e.OrderID] = append(t.history[e.OrderID], e)
	return e.ID, nil
}

func (t *memTx) InsertPayment(_ context.Context, p PaymentRecord) error {
	t.payments[p.OrderID] = append(t.payments[p.OrderID], p)
	return nil
}

type fakeCatalog struct {
	products map[int64]Product
}

func (f *fakeCatalog) Product(_ context.Context, id int64) (Product, error) {
	p, ok := f.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) Products(_ context.Context, ids []int64) (map[int64]Product, error) {
	out := map[int64]Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeClients struct {
	profiles map[int64]*ClientProfile
}

func (f *fakeClients) Profile(_ context.Context, id int64) (*ClientProfile, error) {
	return f.profiles[id], nil
}

type fakeSink struct {
	effects []PurchaseRequestEffect
}

func (f *fakeSink) Submit(_ context.Context, req PurchaseRequestEffect) error {
	f.effects = append(f.effects, req)
	return nil
}

type fakeFiles struct {
	stored  map[string][]byte
	deleted []string
}

func (f *fakeFiles) Store(_ context.Context, orderID int64, data []byte, filename string) (string, error) {
	ref := fmt.Sprintf("designs/%d/%s", orderID, filename)
	if f.stored == nil {
		f.stored = map[string][]byte{}
	}
	f.stored[ref] = data
	return ref, nil
}

func (f *fakeFiles) ResolveURL(_ context.Context, ref string) (string, error) {
	return "https://files.test/" + ref, nil
}

func (f *fakeFiles) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	delete(f.stored, ref)
	return nil
}

type fakeRecorder struct {
	transitions []string
}

func (f *fakeRecorder) RecordTransition(from, to Status) {
	f.transitions = append(f.transitions, string(from)+">"+string(to))
}

func newTestService(repo *memRepo) (*Service, *fakeCatalog) {
	catalog := &fakeCatalog{products: map[int64]Product{
		7: {ID: 7, Name: "Lona 2x1", UnitPrice: f64(200), MinimumOrderQuantity: 1, BaseProductionDays: 2},
		8: {ID: 8, Name: "Tarjetas", PackagePrice: f64(350), MinimumOrderQuantity: 1, BaseProductionDays: 4},
	}}
	svc := NewService(repo, catalog, &fakeClients{profiles: map[int64]*ClientProfile{}})
	svc.WithNow(func() time.Time { return testClock })
	return svc, catalog
}

func TestServiceCreate(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateOrderRequest{
		Items: []CartItem{
			{ProductID: 7, Quantity: 10},
			{ProductID: 8, Description: "Tarjetas mate", Quantity: 2},
		},
	}, 5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Status != StatusQuoted {
		t.Fatalf("status = %s", o.Status)
	}
	if o.TotalAmount != 2700 {
		t.Fatalf("total = %v, want 2700", o.TotalAmount)
	}
	if o.CreatedBy != 5 {
		t.Fatalf("created by = %d", o.CreatedBy)
	}
	if len(o.LineItems) != 2 || o.LineItems[0].LineOrder != 1 || o.LineItems[1].LineOrder != 2 {
		t.Fatalf("line items: %+v", o.LineItems)
	}
	if o.LineItems[1].Description != "Tarjetas mate" {
		t.Fatalf("description = %q", o.LineItems[1].Description)
	}
}

func TestServiceCreateValidatesInput(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)

	if _, err := svc.Create(context.Background(), CreateOrderRequest{}, 5); err == nil {
		t.Fatalf("empty cart accepted")
	}
	if len(repo.orders) != 0 {
		t.Fatalf("order persisted on invalid input")
	}
}

func TestServiceCreateUnknownProduct(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		Items: []CartItem{{ProductID: 99, Quantity: 1}},
	}, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestServiceRequestTransitionPersists(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	recorder := &fakeRecorder{}
	svc.SetTransitionRecorder(recorder)
	ctx := context.Background()

	id := repo.seed(
		Order{Status: StatusQuoted, TotalAmount: 2000},
		LineItem{ProductID: 7, UnitCost: 200, Quantity: 10, LineTotal: 2000},
	)

	o, err := svc.RequestTransition(ctx, id, TransitionRequest{
		Target:  StatusPaid,
		Actor:   counter(),
		Payment: &PaymentInput{Amount: 2000, Plan: PlanSingle},
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if o.Status != StatusPaid || o.PaidAmount != 2000 {
		t.Fatalf("snapshot not persisted: %+v", o)
	}
	if len(o.History) != 1 || o.History[0].ToStatus != StatusPaid {
		t.Fatalf("history: %+v", o.History)
	}
	payments, _ := svc.ListPayments(ctx, id)
	if len(payments) != 1 || payments[0].Amount != 2000 || payments[0].ID == "" {
		t.Fatalf("payments: %+v", payments)
	}
	if payments[0].CreatedAt != testClock {
		t.Fatalf("payment stamped %v, want service clock", payments[0].CreatedAt)
	}
	if len(recorder.transitions) != 1 || recorder.transitions[0] != "QUOTED>PAID" {
		t.Fatalf("recorded: %v", recorder.transitions)
	}
}

func TestServiceRequestTransitionFailureLeavesOrder(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	id := repo.seed(
		Order{Status: StatusQuoted, TotalAmount: 2000},
		LineItem{ProductID: 7, UnitCost: 200, Quantity: 10, LineTotal: 2000},
	)

	_, err := svc.RequestTransition(ctx, id, TransitionRequest{
		Target:  StatusPaid,
		Actor:   workshop(),
		Payment: &PaymentInput{Amount: 2000, Plan: PlanSingle},
	})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Fatalf("err = %v", err)
	}

	o, _ := svc.Get(ctx, id)
	if o.Status != StatusQuoted || o.PaidAmount != 0 || len(o.History) != 0 {
		t.Fatalf("order touched by failed transition: %+v", o)
	}
}

func TestServiceRecordPaymentSettlesBalance(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	id := repo.seed(
		Order{Status: StatusQuoted, TotalAmount: 3000},
		LineItem{ProductID: 7, UnitCost: 200, Quantity: 15, LineTotal: 3000},
	)

	// First installment travels with the transition.
	o, err := svc.RequestTransition(ctx, id, TransitionRequest{
		Target:  StatusPaid,
		Actor:   counter(),
		Payment: &PaymentInput{Amount: 1000, Plan: PlanInstallment},
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if o.PaidAmount != 1000 {
		t.Fatalf("paid = %v", o.PaidAmount)
	}

	// Later installments accumulate until the balance closes.
	o, err = svc.RecordPayment(ctx, id, counter(), PaymentInput{Amount: 1000, Plan: PlanInstallment})
	if err != nil {
		t.Fatalf("second installment: %v", err)
	}
	if o.PaidAmount != 2000 {
		t.Fatalf("paid after second = %v", o.PaidAmount)
	}
	o, err = svc.RecordPayment(ctx, id, counter(), PaymentInput{Amount: 1000, Plan: PlanInstallment})
	if err != nil {
		t.Fatalf("final installment: %v", err)
	}
	if o.PaidAmount != 3000 || o.Balance() != 0 {
		t.Fatalf("balance not settled: paid=%v balance=%v", o.PaidAmount, o.Balance())
	}

	payments, _ := svc.ListPayments(ctx, id)
	if len(payments) != 3 {
		t.Fatalf("ledger rows = %d, want 3", len(payments))
	}
	for _, p := range payments {
		if p.ID == "" || p.Amount != 1000 {
			t.Fatalf("ledger row: %+v", p)
		}
	}
}

func TestServiceRecordPaymentGuards(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	id := repo.seed(Order{Status: StatusPaid, TotalAmount: 3000, PaidAmount: 1000})

	if _, err := svc.RecordPayment(ctx, id, designer(), PaymentInput{Amount: 500, Plan: PlanInstallment}); !errors.Is(err, ErrRoleNotPermitted) {
		t.Fatalf("designer: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, id, counter(), PaymentInput{Amount: 2500, Plan: PlanInstallment}); !errors.Is(err, ErrAmountExceedsBalance) {
		t.Fatalf("over balance: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, id, counter(), PaymentInput{Amount: -5, Plan: PlanInstallment}); !errors.Is(err, ErrAmountNonPositive) {
		t.Fatalf("negative: %v", err)
	}

	// A rejected attempt leaves the ledger and snapshot untouched.
	o, _ := svc.Get(ctx, id)
	if o.PaidAmount != 1000 {
		t.Fatalf("snapshot touched: %v", o.PaidAmount)
	}
	payments, _ := svc.ListPayments(ctx, id)
	if len(payments) != 0 {
		t.Fatalf("ledger rows = %d", len(payments))
	}

	// The first payment must go through the Paid transition.
	quoted := repo.seed(Order{Status: StatusQuoted, TotalAmount: 2000})
	if _, err := svc.RecordPayment(ctx, quoted, counter(), PaymentInput{Amount: 500, Plan: PlanAdvance}); !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("quoted: %v", err)
	}

	delivered := repo.seed(Order{Status: StatusDelivered, TotalAmount: 2000, PaidAmount: 1000})
	if _, err := svc.RecordPayment(ctx, delivered, counter(), PaymentInput{Amount: 500, Plan: PlanSingle}); !errors.Is(err, ErrOrderImmutable) {
		t.Fatalf("terminal: %v", err)
	}
}

func TestServiceDispatchesPurchaseRequests(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	sink := &fakeSink{}
	svc.SetPurchaseRequestSink(sink)
	ctx := context.Background()

	id := repo.seed(
		Order{Status: StatusPaid, TotalAmount: 2000, PaidAmount: 2000},
		LineItem{ProductID: 7, Description: "Lona 2x1", UnitCost: 200, Quantity: 10, LineTotal: 2000},
	)

	_, err := svc.RequestTransition(ctx, id, TransitionRequest{
		Target: StatusInDesignWithoutSupplies,
		Actor:  workshop(),
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if len(sink.effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(sink.effects))
	}
	eff := sink.effects[0]
	if eff.OrderID != id || eff.ProductID != 7 || eff.Quantity != 10 || eff.RequestedBy != workshop().ID {
		t.Fatalf("effect: %+v", eff)
	}
}

func TestServiceOpenForDesign(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	id := repo.seed(Order{Status: StatusInDesignWithSupplies, SuppliesVerified: true})

	o, err := svc.OpenForDesign(ctx, id, designer())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if o.Status != StatusDesignInProgress {
		t.Fatalf("status = %s", o.Status)
	}
	if len(o.History) != 1 {
		t.Fatalf("history = %d", len(o.History))
	}

	// Reopening is a no-op once the stage is on record.
	o, err = svc.OpenForDesign(ctx, id, designer())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(o.History) != 1 {
		t.Fatalf("reopen appended history: %d", len(o.History))
	}

	// Non-designers see the order unchanged.
	o, err = svc.OpenForDesign(ctx, id, counter())
	if err != nil || o.Status != StatusDesignInProgress {
		t.Fatalf("counter open: %v %s", err, o.Status)
	}
}

func TestServiceReplaceLineItems(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	id := repo.seed(
		Order{Status: StatusQuoted, TotalAmount: 2000},
		LineItem{ProductID: 7, UnitCost: 200, Quantity: 10, LineTotal: 2000},
	)

	if _, err := svc.ReplaceLineItems(ctx, id, nil); !errors.Is(err, ErrEmptyLineItems) {
		t.Fatalf("empty cart: %v", err)
	}

	o, err := svc.ReplaceLineItems(ctx, id, []CartItem{{ProductID: 8, Quantity: 3}})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if o.TotalAmount != 1050 {
		t.Fatalf("total = %v, want 1050", o.TotalAmount)
	}
	if len(o.LineItems) != 1 || o.LineItems[0].ProductID != 8 {
		t.Fatalf("line items: %+v", o.LineItems)
	}
}

func TestServiceReplaceLineItemsGuards(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	delivered := repo.seed(Order{Status: StatusDelivered, TotalAmount: 2000})
	if _, err := svc.ReplaceLineItems(ctx, delivered, []CartItem{{ProductID: 7, Quantity: 1}}); !errors.Is(err, ErrOrderImmutable) {
		t.Fatalf("terminal: %v", err)
	}

	// Shrinking the cart below what was already paid is rejected.
	paid := repo.seed(Order{Status: StatusPaid, TotalAmount: 2000, PaidAmount: 2000})
	if _, err := svc.ReplaceLineItems(ctx, paid, []CartItem{{ProductID: 7, Quantity: 1}}); !errors.Is(err, ErrAmountExceedsBalance) {
		t.Fatalf("paid guard: %v", err)
	}
}

func TestServiceAssignDesigner(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	id := repo.seed(Order{Status: StatusPaid, TotalAmount: 500, PaidAmount: 500})

	if _, err := svc.AssignDesigner(ctx, id, 2, workshop()); !errors.Is(err, ErrRoleNotPermitted) {
		t.Fatalf("workshop assign: %v", err)
	}

	o, err := svc.AssignDesigner(ctx, id, 2, counter())
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if o.DesignerID == nil || *o.DesignerID != 2 {
		t.Fatalf("designer = %v", o.DesignerID)
	}
}

func TestServiceSetInvoiceRequested(t *testing.T) {
	repo := newMemRepo()
	catalog := &fakeCatalog{products: map[int64]Product{}}
	clients := &fakeClients{profiles: map[int64]*ClientProfile{
		1: {ID: 1, Name: "ACME", TaxID: "ACM010101AAA", TaxUsageCode: "G03", PostalCode: "06600"},
		2: {ID: 2, Name: "Mostrador"},
	}}
	svc := NewService(repo, catalog, clients)
	svc.WithNow(func() time.Time { return testClock })
	ctx := context.Background()

	anonymous := repo.seed(Order{Status: StatusQuoted})
	if _, err := svc.SetInvoiceRequested(ctx, anonymous, true); !errors.Is(err, ErrMissingFiscalData) {
		t.Fatalf("no client: %v", err)
	}

	incomplete := repo.seed(Order{Status: StatusQuoted, ClientID: int64ptr(2)})
	if _, err := svc.SetInvoiceRequested(ctx, incomplete, true); !errors.Is(err, ErrMissingFiscalData) {
		t.Fatalf("incomplete profile: %v", err)
	}

	complete := repo.seed(Order{Status: StatusQuoted, ClientID: int64ptr(1)})
	o, err := svc.SetInvoiceRequested(ctx, complete, true)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !o.RequiresInvoice {
		t.Fatalf("flag not set")
	}

	// Clearing the flag needs no fiscal data at all.
	o, err = svc.SetInvoiceRequested(ctx, anonymous, false)
	if err != nil || o.RequiresInvoice {
		t.Fatalf("clear: %v %v", err, o.RequiresInvoice)
	}
}

func TestServiceAttachDesignFile(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	files := &fakeFiles{}
	svc.SetFileStore(files)
	ctx := context.Background()

	id := repo.seed(Order{Status: StatusDesignInProgress})

	o, err := svc.AttachDesignFile(ctx, id, []byte("pdf"), "proof.pdf")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if o.DesignFileRef == nil || *o.DesignFileRef != fmt.Sprintf("designs/%d/proof.pdf", id) {
		t.Fatalf("ref = %v", o.DesignFileRef)
	}

	url, err := svc.DesignFileURL(ctx, id)
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if url != "https://files.test/"+*o.DesignFileRef {
		t.Fatalf("url = %s", url)
	}

	// Replacing the asset releases the superseded object.
	firstRef := *o.DesignFileRef
	o, err = svc.AttachDesignFile(ctx, id, []byte("pdf v2"), "proof_v2.pdf")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if *o.DesignFileRef == firstRef {
		t.Fatalf("ref not replaced")
	}
	if len(files.deleted) != 1 || files.deleted[0] != firstRef {
		t.Fatalf("deleted = %v, want [%s]", files.deleted, firstRef)
	}
}

func TestServiceAttachDesignFileKeepsPlaceholder(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	files := &fakeFiles{}
	svc.SetFileStore(files)
	ctx := context.Background()

	// Imported orders carry the legacy marker, which never maps to a
	// stored object.
	id := repo.seed(Order{Status: StatusDesignInProgress, DesignFileRef: strptr(placeholderFileRef)})

	if _, err := svc.AttachDesignFile(ctx, id, []byte("pdf"), "proof.pdf"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(files.deleted) != 0 {
		t.Fatalf("deleted = %v", files.deleted)
	}
}

func TestServiceDesignerQueue(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	repo.seed(Order{Status: StatusDesignInProgress, DesignerID: int64ptr(2), CreatedAt: day(2)})
	repo.seed(Order{Status: StatusDesignRejected, DesignerID: int64ptr(2), CreatedAt: day(5)})
	repo.seed(Order{Status: StatusDesignInProgress, DesignerID: int64ptr(3), CreatedAt: day(1)})
	repo.seed(Order{Status: StatusDelivered, DesignerID: int64ptr(2), CreatedAt: day(1)})

	queue, err := svc.DesignerQueue(ctx, 2)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue = %d orders, want 2", len(queue))
	}
	if queue[0].Status != StatusDesignRejected {
		t.Fatalf("corrections not first: %s", queue[0].Status)
	}
}

func TestServiceGroupedByDesigner(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo)
	svc.SetDesignerDirectory(designerDirectoryFunc(func(id int64) (string, bool) {
		if id == 2 {
			return "Ana", true
		}
		return "", false
	}))
	ctx := context.Background()

	repo.seed(Order{Status: StatusDesignInProgress, DesignerID: int64ptr(2), TotalAmount: 100})
	repo.seed(Order{Status: StatusQuoted, TotalAmount: 50})

	groups, err := svc.GroupedByDesigner(ctx)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d", len(groups))
	}
	if groups[0].DesignerName != "Ana" || groups[1].DesignerName != UnassignedGroupLabel {
		t.Fatalf("order: %s, %s", groups[0].DesignerName, groups[1].DesignerName)
	}
}

type designerDirectoryFunc func(id int64) (string, bool)

func (f designerDirectoryFunc) DesignerName(_ context.Context, id int64) (string, bool) {
	return f(id)
}
