package service

import (
	"context"
	"testing"

	"inventory-backend/internal/domains/product/model"
	stockmodel "inventory-backend/internal/domains/stock/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	hasMovements bool
	deleted      bool
	deactivated  bool
}

func (f *fakeProductRepo) Create(_ context.Context, _ *model.Product) error { return nil }

func (f *fakeProductRepo) GetByID(_ context.Context, _ uuid.UUID) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetByCode(_ context.Context, _ string) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListActive(_ context.Context) ([]model.Product, error) { return nil, nil }

func (f *fakeProductRepo) Update(_ context.Context, _ *model.Product) error { return nil }

func (f *fakeProductRepo) SetActive(_ context.Context, _ uuid.UUID, active bool) error {
	f.deactivated = !active
	return nil
}

func (f *fakeProductRepo) HasMovements(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.hasMovements, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, _ uuid.UUID) error {
	f.deleted = true
	return nil
}

func (f *fakeProductRepo) GetTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) (*model.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) AlertViewTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) (*model.AlertView, error) {
	return nil, nil
}

func (f *fakeProductRepo) UpdateCostPriceTx(_ context.Context, _ pgx.Tx, _ uuid.UUID, _ decimal.Decimal) error {
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheckPrices(t *testing.T) {
	assert.NoError(t, checkPrices(dec("2.00"), dec("3.00"), 10))
	assert.NoError(t, checkPrices(dec("0"), dec("0"), 0))
	assert.NoError(t, checkPrices(dec("2.00"), dec("2.00"), 0))

	assert.True(t, apperr.IsValidation(checkPrices(dec("-0.01"), dec("3.00"), 10)))
	assert.True(t, apperr.IsValidation(checkPrices(dec("2.00"), dec("-0.01"), 10)))
	assert.True(t, apperr.IsValidation(checkPrices(dec("3.00"), dec("2.00"), 10)))
	assert.True(t, apperr.IsValidation(checkPrices(dec("2.00"), dec("3.00"), -1)))
}

func TestBuildStockView(t *testing.T) {
	product := model.Product{ID: uuid.New(), Code: "SKU-001"}
	w1, w2 := uuid.New(), uuid.New()
	positions := []stockmodel.WarehousePosition{
		{WarehouseID: w1, WarehouseName: "Main", OnHand: 7},
		{WarehouseID: w2, WarehouseName: "Overflow", OnHand: 3},
	}

	view := buildStockView(product, positions)
	assert.Equal(t, int64(10), view.TotalOnHand)
	require.Len(t, view.Warehouses, 2)
	assert.Equal(t, "Main", view.Warehouses[0].WarehouseName)
	assert.Equal(t, int64(7), view.Warehouses[0].OnHand)
}

func TestBuildStockViewNoPositions(t *testing.T) {
	view := buildStockView(model.Product{Code: "SKU-002"}, nil)
	assert.Equal(t, int64(0), view.TotalOnHand)
	assert.Empty(t, view.Warehouses)
}

func TestDeactivateDeletesUnmovedProduct(t *testing.T) {
	repo := &fakeProductRepo{hasMovements: false}
	svc := NewProductService(repo, nil)

	deleted, err := svc.Deactivate(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.True(t, repo.deleted)
	assert.False(t, repo.deactivated)
}

func TestDeactivateSoftDeletesMovedProduct(t *testing.T) {
	repo := &fakeProductRepo{hasMovements: true}
	svc := NewProductService(repo, nil)

	deleted, err := svc.Deactivate(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.False(t, repo.deleted)
	assert.True(t, repo.deactivated)
}
