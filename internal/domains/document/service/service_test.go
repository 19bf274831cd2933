package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	alertmodel "inventory-backend/internal/domains/alert/model"
	alertservice "inventory-backend/internal/domains/alert/service"
	"inventory-backend/internal/domains/document/model"
	productmodel "inventory-backend/internal/domains/product/model"
	stockmodel "inventory-backend/internal/domains/stock/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx satisfies pgx.Tx for flows that only pass the handle through to the
// fake repositories. Only Commit and Rollback are ever called on it.
type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) Commit(context.Context) error   { t.db.commits++; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.db.rollbacks++; return nil }

type fakeDB struct {
	begins    int
	commits   int
	rollbacks int
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	f.begins++
	return &fakeTx{db: f}, nil
}

type fakeDocRepo struct {
	purchases map[uuid.UUID]*model.Purchase
	sales     map[uuid.UUID]*model.Sale

	// Remaining header inserts that fail with the number unique violation.
	purchaseHeaderClashes int
	saleHeaderClashes     int

	purchaseHeaders []*model.PurchaseHeader
	purchaseLines   []model.PurchaseLine
	saleHeaders     []*model.SaleHeader
	saleLines       []model.SaleLine

	cancelledPurchases map[uuid.UUID]uuid.UUID
	cancelledSales     map[uuid.UUID]uuid.UUID

	missingSupplier  bool
	missingCustomer  bool
	missingWarehouse bool
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{
		purchases:          make(map[uuid.UUID]*model.Purchase),
		sales:              make(map[uuid.UUID]*model.Sale),
		cancelledPurchases: make(map[uuid.UUID]uuid.UUID),
		cancelledSales:     make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeDocRepo) CreatePurchaseHeaderTx(_ context.Context, _ pgx.Tx, header *model.PurchaseHeader) error {
	if f.purchaseHeaderClashes > 0 {
		f.purchaseHeaderClashes--
		return apperr.Conflict("purchase", "purchase_headers_reference_number_key")
	}
	header.ID = uuid.New()
	header.CreatedAt = time.Now()
	f.purchaseHeaders = append(f.purchaseHeaders, header)
	return nil
}

func (f *fakeDocRepo) CreatePurchaseLineTx(_ context.Context, _ pgx.Tx, line *model.PurchaseLine) error {
	line.ID = uuid.New()
	f.purchaseLines = append(f.purchaseLines, *line)
	return nil
}

func (f *fakeDocRepo) SetPurchaseTotalTx(_ context.Context, _ pgx.Tx, _ *model.PurchaseHeader) error {
	return nil
}

func (f *fakeDocRepo) GetPurchaseTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (*model.Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, apperr.NotFound("purchase", id.String())
	}
	cp := *p
	return &cp, nil
}

func (f *fakeDocRepo) MarkPurchaseCancelledTx(_ context.Context, _ pgx.Tx, id, compensatorSaleID uuid.UUID) error {
	p, ok := f.purchases[id]
	if !ok {
		return apperr.NotFound("purchase", id.String())
	}
	if p.Status != model.StatusPosted {
		return apperr.Conflict("purchase", "document is not in POSTED status")
	}
	f.cancelledPurchases[id] = compensatorSaleID
	return nil
}

func (f *fakeDocRepo) CreateSaleHeaderTx(_ context.Context, _ pgx.Tx, header *model.SaleHeader) error {
	if f.saleHeaderClashes > 0 {
		f.saleHeaderClashes--
		return apperr.Conflict("sale", "sale_headers_invoice_number_key")
	}
	header.ID = uuid.New()
	header.CreatedAt = time.Now()
	f.saleHeaders = append(f.saleHeaders, header)
	return nil
}

func (f *fakeDocRepo) CreateSaleLineTx(_ context.Context, _ pgx.Tx, line *model.SaleLine) error {
	line.ID = uuid.New()
	f.saleLines = append(f.saleLines, *line)
	return nil
}

func (f *fakeDocRepo) SetSaleTotalTx(_ context.Context, _ pgx.Tx, _ *model.SaleHeader) error {
	return nil
}

func (f *fakeDocRepo) GetSaleTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (*model.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, apperr.NotFound("sale", id.String())
	}
	cp := *s
	return &cp, nil
}

func (f *fakeDocRepo) MarkSaleCancelledTx(_ context.Context, _ pgx.Tx, id, compensatorPurchaseID uuid.UUID) error {
	s, ok := f.sales[id]
	if !ok {
		return apperr.NotFound("sale", id.String())
	}
	if s.Status != model.StatusPosted {
		return apperr.Conflict("sale", "document is not in POSTED status")
	}
	f.cancelledSales[id] = compensatorPurchaseID
	return nil
}

func (f *fakeDocRepo) GetPurchase(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, apperr.NotFound("purchase", id.String())
	}
	return p, nil
}

func (f *fakeDocRepo) ListPurchases(_ context.Context, _ model.ListFilter) ([]model.Purchase, int64, error) {
	return nil, 0, nil
}

func (f *fakeDocRepo) GetSale(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, apperr.NotFound("sale", id.String())
	}
	return s, nil
}

func (f *fakeDocRepo) ListSales(_ context.Context, _ model.ListFilter) ([]model.Sale, int64, error) {
	return nil, 0, nil
}

func (f *fakeDocRepo) SupplierExistsTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) (bool, error) {
	return !f.missingSupplier, nil
}

func (f *fakeDocRepo) CustomerExistsTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) (bool, error) {
	return !f.missingCustomer, nil
}

func (f *fakeDocRepo) WarehouseExistsTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) (bool, error) {
	return !f.missingWarehouse, nil
}

type costUpdate struct {
	productID uuid.UUID
	price     decimal.Decimal
}

type fakeProducts struct {
	byID        map[uuid.UUID]*productmodel.Product
	costUpdates []costUpdate
}

func (f *fakeProducts) Create(_ context.Context, _ *productmodel.Product) error { return nil }
func (f *fakeProducts) GetByID(_ context.Context, _ uuid.UUID) (*productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProducts) GetByCode(_ context.Context, _ string) (*productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProducts) ListActive(_ context.Context) ([]productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProducts) Update(_ context.Context, _ *productmodel.Product) error   { return nil }
func (f *fakeProducts) SetActive(_ context.Context, _ uuid.UUID, _ bool) error    { return nil }
func (f *fakeProducts) HasMovements(_ context.Context, _ uuid.UUID) (bool, error) { return false, nil }
func (f *fakeProducts) Delete(_ context.Context, _ uuid.UUID) error               { return nil }

func (f *fakeProducts) GetTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (*productmodel.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("product", id.String())
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) AlertViewTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (*productmodel.AlertView, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("product", id.String())
	}
	return &productmodel.AlertView{ID: p.ID, Code: p.Code, ReorderLevel: p.ReorderLevel}, nil
}

func (f *fakeProducts) UpdateCostPriceTx(_ context.Context, _ pgx.Tx, id uuid.UUID, costPrice decimal.Decimal) error {
	f.costUpdates = append(f.costUpdates, costUpdate{productID: id, price: costPrice})
	f.byID[id].CostPrice = costPrice
	return nil
}

type stockKey struct {
	product   uuid.UUID
	warehouse uuid.UUID
}

type fakeLedger struct {
	onHand  map[stockKey]int64
	appends []stockmodel.AppendInput
}

func (f *fakeLedger) AppendTx(_ context.Context, _ pgx.Tx, input stockmodel.AppendInput) (*stockmodel.Movement, error) {
	if !input.Kind.IsValid() || !input.Kind.AllowsDelta(input.Delta) {
		return nil, apperr.Validation("delta", "sign does not match kind")
	}
	key := stockKey{product: input.ProductID, warehouse: input.WarehouseID}
	balance := f.onHand[key]
	next := balance + input.Delta
	if next < 0 {
		return nil, apperr.InsufficientStock(balance, -input.Delta)
	}
	f.onHand[key] = next
	f.appends = append(f.appends, input)
	return &stockmodel.Movement{
		ID:          int64(len(f.appends)),
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		Delta:       input.Delta,
		Kind:        input.Kind,
		OccurredAt:  time.Now(),
	}, nil
}

func (f *fakeLedger) TotalOnHandTx(_ context.Context, _ pgx.Tx, productID uuid.UUID) (int64, error) {
	var total int64
	for key, n := range f.onHand {
		if key.product == productID {
			total += n
		}
	}
	return total, nil
}

func (f *fakeLedger) Position(_ context.Context, _, _ uuid.UUID) (*stockmodel.Position, error) {
	return nil, nil
}

func (f *fakeLedger) PositionsForProduct(_ context.Context, _ uuid.UUID) ([]stockmodel.WarehousePosition, error) {
	return nil, nil
}

func (f *fakeLedger) Ledger(_ context.Context, _ stockmodel.LedgerFilter) ([]stockmodel.Movement, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedger) Verify(_ context.Context) ([]stockmodel.Divergence, error) { return nil, nil }
func (f *fakeLedger) Rebuild(_ context.Context) (int64, error)                  { return 0, nil }

type fakeAlerts struct {
	checks []alertservice.ProductState
}

func (f *fakeAlerts) CheckProductTx(_ context.Context, _ pgx.Tx, state alertservice.ProductState) error {
	f.checks = append(f.checks, state)
	return nil
}

func (f *fakeAlerts) Resolve(_ context.Context, _ alertmodel.ResolveRequest) (*alertmodel.Alert, error) {
	return nil, nil
}

func (f *fakeAlerts) List(_ context.Context, _ alertmodel.StatusFilter) ([]alertmodel.ListItem, error) {
	return nil, nil
}

func (f *fakeAlerts) SweepResolved(_ context.Context, _ int) (int64, error) { return 0, nil }

type engineFixture struct {
	db       *fakeDB
	docs     *fakeDocRepo
	products *fakeProducts
	ledger   *fakeLedger
	alerts   *fakeAlerts
	svc      ServiceInterface
}

func newEngine() *engineFixture {
	f := &engineFixture{
		db:       &fakeDB{},
		docs:     newFakeDocRepo(),
		products: &fakeProducts{byID: make(map[uuid.UUID]*productmodel.Product)},
		ledger:   &fakeLedger{onHand: make(map[stockKey]int64)},
		alerts:   &fakeAlerts{},
	}
	f.svc = NewDocumentService(f.db, f.docs, f.products, f.ledger, f.alerts)
	return f
}

func (f *engineFixture) seedProduct(code, cost, sell string, reorder int64) uuid.UUID {
	id := uuid.New()
	f.products.byID[id] = &productmodel.Product{
		ID:           id,
		Code:         code,
		CostPrice:    dec(cost),
		SellingPrice: dec(sell),
		ReorderLevel: reorder,
		IsActive:     true,
	}
	return id
}

func (f *engineFixture) seedStock(productID, warehouseID uuid.UUID, onHand int64) {
	f.ledger.onHand[stockKey{product: productID, warehouse: warehouseID}] = onHand
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGenerateNumber(t *testing.T) {
	number := generateNumber(purchasePrefix)
	require.True(t, strings.HasPrefix(number, "PO-"))

	suffix := strings.TrimPrefix(number, "PO-")
	_, err := strconv.ParseInt(suffix, 10, 64)
	assert.NoError(t, err, "suffix should be an epoch timestamp")

	assert.True(t, strings.HasPrefix(generateNumber(salePrefix), "INV-"))
	assert.True(t, strings.HasPrefix(generateNumber(cancelSalePrefix), "CN-"))
	assert.True(t, strings.HasPrefix(generateNumber(returnPrefix), "RET-"))
}

func TestClampFilter(t *testing.T) {
	tests := []struct {
		name string
		in   model.ListFilter
		want model.ListFilter
	}{
		{"zero limit gets default", model.ListFilter{}, model.ListFilter{Limit: 50}},
		{"negative limit gets default", model.ListFilter{Limit: -1}, model.ListFilter{Limit: 50}},
		{"over cap gets default", model.ListFilter{Limit: 201}, model.ListFilter{Limit: 50}},
		{"at cap stays", model.ListFilter{Limit: 200}, model.ListFilter{Limit: 200}},
		{"negative offset clamps to zero", model.ListFilter{Limit: 10, Offset: -5}, model.ListFilter{Limit: 10}},
		{"valid passes through", model.ListFilter{Limit: 25, Offset: 50}, model.ListFilter{Limit: 25, Offset: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampFilter(tt.in))
		})
	}
}

func TestPostPurchaseCommitsHeaderLinesAndMovements(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "1.00", "5.00", 3)
	gadget := f.seedProduct("SKU-002", "1.50", "6.00", 3)

	purchase, err := f.svc.PostPurchase(context.Background(), model.PostPurchaseRequest{
		SupplierID:  uuid.New(),
		WarehouseID: warehouse,
		Lines: []model.PurchaseLineInput{
			{ProductID: widget, Quantity: 10, UnitCost: dec("2.00")},
			{ProductID: gadget, Quantity: 5, UnitCost: dec("3.00")},
		},
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.StatusPosted, purchase.Status)
	assert.True(t, strings.HasPrefix(purchase.ReferenceNumber, "PO-"))
	assert.True(t, purchase.TotalAmount.Equal(dec("35.00")), "got %s", purchase.TotalAmount)
	require.Len(t, purchase.Lines, 2)
	assert.True(t, purchase.Lines[0].LineTotal.Equal(dec("20.00")))

	require.Len(t, f.ledger.appends, 2)
	assert.Equal(t, stockmodel.MovementPurchaseIn, f.ledger.appends[0].Kind)
	assert.Equal(t, int64(10), f.ledger.appends[0].Delta)
	assert.Equal(t, int64(5), f.ledger.appends[1].Delta)

	// Last-received wins: both products got their cost price rewritten.
	require.Len(t, f.products.costUpdates, 2)
	assert.True(t, f.products.byID[widget].CostPrice.Equal(dec("2.00")))

	// One alert evaluation per touched product, with the post-movement total.
	require.Len(t, f.alerts.checks, 2)
	assert.Equal(t, int64(10), f.alerts.checks[0].TotalOnHand)

	assert.Equal(t, 1, f.db.begins)
	assert.Equal(t, 1, f.db.commits)
	assert.Equal(t, 0, f.db.rollbacks)
}

func TestPostPurchaseSuppliedNumberConflictFailsFast(t *testing.T) {
	f := newEngine()
	widget := f.seedProduct("SKU-001", "1.00", "5.00", 3)
	f.docs.purchaseHeaderClashes = 1

	_, err := f.svc.PostPurchase(context.Background(), model.PostPurchaseRequest{
		SupplierID:      uuid.New(),
		WarehouseID:     uuid.New(),
		ReferenceNumber: "PO-2026-001",
		Lines:           []model.PurchaseLineInput{{ProductID: widget, Quantity: 1, UnitCost: dec("2.00")}},
	}, uuid.New())

	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 1, f.db.begins, "a supplied number must not be retried")
	assert.Equal(t, 0, f.db.commits)
	assert.Equal(t, 1, f.db.rollbacks)
}

func TestPostPurchaseRetriesGeneratedNumberOnClash(t *testing.T) {
	f := newEngine()
	widget := f.seedProduct("SKU-001", "1.00", "5.00", 3)
	f.docs.purchaseHeaderClashes = 2

	purchase, err := f.svc.PostPurchase(context.Background(), model.PostPurchaseRequest{
		SupplierID:  uuid.New(),
		WarehouseID: uuid.New(),
		Lines:       []model.PurchaseLineInput{{ProductID: widget, Quantity: 1, UnitCost: dec("2.00")}},
	}, uuid.New())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(purchase.ReferenceNumber, "PO-"))
	assert.Equal(t, 3, f.db.begins)
	assert.Equal(t, 1, f.db.commits)
	assert.Equal(t, 2, f.db.rollbacks)
}

func TestPostPurchaseGivesUpWhenEveryNumberClashes(t *testing.T) {
	f := newEngine()
	widget := f.seedProduct("SKU-001", "1.00", "5.00", 3)
	f.docs.purchaseHeaderClashes = numberGenAttempts

	_, err := f.svc.PostPurchase(context.Background(), model.PostPurchaseRequest{
		SupplierID:  uuid.New(),
		WarehouseID: uuid.New(),
		Lines:       []model.PurchaseLineInput{{ProductID: widget, Quantity: 1, UnitCost: dec("2.00")}},
	}, uuid.New())

	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, numberGenAttempts, f.db.begins)
	assert.Equal(t, 0, f.db.commits)
}

func TestPostPurchaseUnknownSupplierWritesNothing(t *testing.T) {
	f := newEngine()
	widget := f.seedProduct("SKU-001", "1.00", "5.00", 3)
	f.docs.missingSupplier = true

	_, err := f.svc.PostPurchase(context.Background(), model.PostPurchaseRequest{
		SupplierID:  uuid.New(),
		WarehouseID: uuid.New(),
		Lines:       []model.PurchaseLineInput{{ProductID: widget, Quantity: 1, UnitCost: dec("2.00")}},
	}, uuid.New())

	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, f.ledger.appends)
	assert.Equal(t, 0, f.db.commits)
	assert.Equal(t, 1, f.db.rollbacks)
}

func TestPostSaleSnapshotsCogsAndDefaultsPrice(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "2.50", "9.99", 3)
	f.seedStock(widget, warehouse, 10)

	sale, err := f.svc.PostSale(context.Background(), model.PostSaleRequest{
		CustomerID:  uuid.New(),
		WarehouseID: warehouse,
		Lines:       []model.SaleLineInput{{ProductID: widget, Quantity: 2}},
	}, uuid.New())
	require.NoError(t, err)

	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].UnitPrice.Equal(dec("9.99")), "omitted price falls back to selling price")
	assert.True(t, sale.Lines[0].UnitCostSnapshot.Equal(dec("2.50")))
	assert.True(t, sale.TotalAmount.Equal(dec("19.98")))
	assert.True(t, strings.HasPrefix(sale.InvoiceNumber, "INV-"))

	require.Len(t, f.ledger.appends, 1)
	assert.Equal(t, stockmodel.MovementSaleOut, f.ledger.appends[0].Kind)
	assert.Equal(t, int64(-2), f.ledger.appends[0].Delta)
	require.NotNil(t, f.ledger.appends[0].UnitCostSnapshot)
	assert.True(t, f.ledger.appends[0].UnitCostSnapshot.Equal(dec("2.50")))
}

func TestPostSaleInsufficientStockRollsBackWholeDocument(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "2.00", "9.00", 3)
	gadget := f.seedProduct("SKU-002", "3.00", "8.00", 3)
	f.seedStock(widget, warehouse, 10)
	f.seedStock(gadget, warehouse, 1)

	_, err := f.svc.PostSale(context.Background(), model.PostSaleRequest{
		CustomerID:  uuid.New(),
		WarehouseID: warehouse,
		Lines: []model.SaleLineInput{
			{ProductID: widget, Quantity: 5},
			{ProductID: gadget, Quantity: 3},
		},
	}, uuid.New())

	assert.True(t, apperr.IsInsufficientStock(err))
	assert.Equal(t, 1, f.db.begins, "an oversell is not retried")
	assert.Equal(t, 0, f.db.commits)
	assert.Equal(t, 1, f.db.rollbacks)
	assert.Empty(t, f.alerts.checks, "alerts never run for a rolled-back document")
}

func TestPostSaleRejectsInactiveProduct(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "2.00", "9.00", 3)
	f.products.byID[widget].IsActive = false
	f.seedStock(widget, warehouse, 10)

	_, err := f.svc.PostSale(context.Background(), model.PostSaleRequest{
		CustomerID:  uuid.New(),
		WarehouseID: warehouse,
		Lines:       []model.SaleLineInput{{ProductID: widget, Quantity: 1}},
	}, uuid.New())

	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, f.ledger.appends)
}

func (f *engineFixture) seedPostedSale(warehouse uuid.UUID, lines []model.SaleLine) uuid.UUID {
	id := uuid.New()
	for i := range lines {
		lines[i].HeaderID = id
	}
	f.sealSale(&model.Sale{
		SaleHeader: model.SaleHeader{
			ID:            id,
			InvoiceNumber: "INV-1000",
			WarehouseID:   warehouse,
			Status:        model.StatusPosted,
			CreatedBy:     uuid.New(),
		},
		Lines: lines,
	})
	return id
}

func (f *engineFixture) sealSale(s *model.Sale) { f.docs.sales[s.ID] = s }

func (f *engineFixture) seedPostedPurchase(warehouse uuid.UUID, lines []model.PurchaseLine) uuid.UUID {
	id := uuid.New()
	for i := range lines {
		lines[i].HeaderID = id
	}
	f.docs.purchases[id] = &model.Purchase{
		PurchaseHeader: model.PurchaseHeader{
			ID:              id,
			ReferenceNumber: "PO-1000",
			WarehouseID:     warehouse,
			Status:          model.StatusPosted,
			CreatedBy:       uuid.New(),
		},
		Lines: lines,
	}
	return id
}

func TestCancelSalePostsCompensatingPurchase(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "4.00", "9.00", 3)
	f.seedStock(widget, warehouse, 2)

	saleID := f.seedPostedSale(warehouse, []model.SaleLine{{
		ProductID:        widget,
		Quantity:         5,
		UnitPrice:        dec("9.00"),
		UnitCostSnapshot: dec("2.50"),
		LineTotal:        dec("45.00"),
	}})

	cancelled, err := f.svc.CancelSale(context.Background(), saleID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledByPurchaseID)

	require.Len(t, f.docs.purchaseHeaders, 1)
	compensator := f.docs.purchaseHeaders[0]
	assert.True(t, strings.HasPrefix(compensator.ReferenceNumber, "RET-"))
	assert.True(t, compensator.IsCompensation)
	require.NotNil(t, compensator.CompensatesSaleID)
	assert.Equal(t, saleID, *compensator.CompensatesSaleID)
	assert.Equal(t, compensator.ID, f.docs.cancelledSales[saleID])

	// Quantities come back in at the COGS snapshot, not the current cost
	// price, and the product's cost price stays untouched.
	require.Len(t, f.ledger.appends, 1)
	assert.Equal(t, stockmodel.MovementPurchaseIn, f.ledger.appends[0].Kind)
	assert.Equal(t, int64(5), f.ledger.appends[0].Delta)
	require.NotNil(t, f.ledger.appends[0].UnitCostSnapshot)
	assert.True(t, f.ledger.appends[0].UnitCostSnapshot.Equal(dec("2.50")))
	assert.Empty(t, f.products.costUpdates)
	assert.True(t, f.products.byID[widget].CostPrice.Equal(dec("4.00")))

	assert.Equal(t, 1, f.db.commits)
}

func TestCancelSaleRetriesCompensatorNumberClash(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "4.00", "9.00", 3)
	saleID := f.seedPostedSale(warehouse, []model.SaleLine{{
		ProductID:        widget,
		Quantity:         2,
		UnitPrice:        dec("9.00"),
		UnitCostSnapshot: dec("4.00"),
		LineTotal:        dec("18.00"),
	}})
	f.docs.purchaseHeaderClashes = 1

	cancelled, err := f.svc.CancelSale(context.Background(), saleID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 2, f.db.begins, "a clashing compensator number is regenerated")
	assert.Equal(t, 1, f.db.commits)
	assert.Equal(t, 1, f.db.rollbacks)
}

func TestCancelPurchaseCreatesOutboundCompensator(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "2.00", "9.00", 3)
	f.seedStock(widget, warehouse, 5)

	purchaseID := f.seedPostedPurchase(warehouse, []model.PurchaseLine{{
		ProductID: widget,
		Quantity:  5,
		UnitCost:  dec("2.00"),
		LineTotal: dec("10.00"),
	}})

	cancelled, err := f.svc.CancelPurchase(context.Background(), purchaseID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBySaleID)

	require.Len(t, f.docs.saleHeaders, 1)
	compensator := f.docs.saleHeaders[0]
	assert.True(t, strings.HasPrefix(compensator.InvoiceNumber, "CN-"))
	assert.True(t, compensator.IsCompensation)
	require.NotNil(t, compensator.CompensatesPurchaseID)
	assert.Equal(t, purchaseID, *compensator.CompensatesPurchaseID)

	require.Len(t, f.ledger.appends, 1)
	assert.Equal(t, stockmodel.MovementSaleOut, f.ledger.appends[0].Kind)
	assert.Equal(t, int64(-5), f.ledger.appends[0].Delta)
	assert.Equal(t, int64(0), f.ledger.onHand[stockKey{product: widget, warehouse: warehouse}])
}

func TestCancelPurchaseFailsWhenGoodsAlreadySold(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "2.00", "9.00", 3)
	f.seedStock(widget, warehouse, 2)

	purchaseID := f.seedPostedPurchase(warehouse, []model.PurchaseLine{{
		ProductID: widget,
		Quantity:  5,
		UnitCost:  dec("2.00"),
		LineTotal: dec("10.00"),
	}})

	_, err := f.svc.CancelPurchase(context.Background(), purchaseID, uuid.New())

	assert.True(t, apperr.IsInsufficientStock(err))
	assert.Equal(t, 0, f.db.commits)
	assert.Empty(t, f.docs.cancelledPurchases)
}

func TestCancelGuardsAreNotRetriedAsNumberClashes(t *testing.T) {
	f := newEngine()
	warehouse := uuid.New()
	widget := f.seedProduct("SKU-001", "2.00", "9.00", 3)

	compensatorID := uuid.New()
	f.sealSale(&model.Sale{
		SaleHeader: model.SaleHeader{
			ID:             compensatorID,
			InvoiceNumber:  "CN-1",
			WarehouseID:    warehouse,
			Status:         model.StatusPosted,
			IsCompensation: true,
		},
		Lines: []model.SaleLine{{ProductID: widget, Quantity: 1}},
	})

	cancelledID := uuid.New()
	f.sealSale(&model.Sale{
		SaleHeader: model.SaleHeader{
			ID:            cancelledID,
			InvoiceNumber: "INV-2",
			WarehouseID:   warehouse,
			Status:        model.StatusCancelled,
		},
	})

	_, err := f.svc.CancelSale(context.Background(), compensatorID, uuid.New())
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 1, f.db.begins, "guard conflicts surface without retry")

	f.db.begins = 0
	_, err = f.svc.CancelSale(context.Background(), cancelledID, uuid.New())
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 1, f.db.begins)
}
