package service

import (
	"context"
	"testing"
	"time"

	"inventory-backend/internal/domains/alert/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlertRepo struct {
	open          map[model.Kind]bool
	opened        []model.Alert
	resolved      []model.Kind
	alerts        []model.Alert
	resolveResult *model.Alert
	lastResolveID uuid.UUID
	lastResolveBy string
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{open: map[model.Kind]bool{}}
}

func (f *fakeAlertRepo) OpenTx(_ context.Context, _ pgx.Tx, alert *model.Alert) error {
	f.opened = append(f.opened, *alert)
	f.open[alert.Kind] = true
	return nil
}

func (f *fakeAlertRepo) HasOpenTx(_ context.Context, _ pgx.Tx, _ uuid.UUID, kind model.Kind) (bool, error) {
	return f.open[kind], nil
}

func (f *fakeAlertRepo) ResolveOpenTx(_ context.Context, _ pgx.Tx, _ uuid.UUID, _ string, kinds ...model.Kind) (int64, error) {
	var n int64
	for _, k := range kinds {
		f.resolved = append(f.resolved, k)
		if f.open[k] {
			f.open[k] = false
			n++
		}
	}
	return n, nil
}

func (f *fakeAlertRepo) GetByID(_ context.Context, _ uuid.UUID) (*model.Alert, error) {
	return f.resolveResult, nil
}

func (f *fakeAlertRepo) Resolve(_ context.Context, id uuid.UUID, resolvedBy string) (*model.Alert, error) {
	f.lastResolveID = id
	f.lastResolveBy = resolvedBy
	return f.resolveResult, nil
}

func (f *fakeAlertRepo) List(_ context.Context, _ model.StatusFilter) ([]model.Alert, error) {
	return f.alerts, nil
}

func (f *fakeAlertRepo) SweepResolved(_ context.Context, _ int) (int64, error) {
	return int64(len(f.alerts)), nil
}

func state(total, reorder int64) ProductState {
	return ProductState{
		ProductID:    uuid.New(),
		Code:         "SKU-001",
		ReorderLevel: reorder,
		TotalOnHand:  total,
	}
}

func TestCheckProductOpensOutOfStockAtZero(t *testing.T) {
	repo := newFakeAlertRepo()
	svc := NewAlertService(repo)

	err := svc.CheckProductTx(context.Background(), nil, state(0, 10))
	require.NoError(t, err)

	require.Len(t, repo.opened, 1)
	assert.Equal(t, model.KindOutOfStock, repo.opened[0].Kind)
	assert.Equal(t, "Product SKU-001 is OUT OF STOCK", repo.opened[0].Message)
	assert.Equal(t, int64(0), repo.opened[0].ObservedOnHand)
	assert.Contains(t, repo.resolved, model.KindLowStock)
}

func TestCheckProductOpensLowStockInBand(t *testing.T) {
	repo := newFakeAlertRepo()
	svc := NewAlertService(repo)

	err := svc.CheckProductTx(context.Background(), nil, state(3, 10))
	require.NoError(t, err)

	require.Len(t, repo.opened, 1)
	assert.Equal(t, model.KindLowStock, repo.opened[0].Kind)
	assert.Equal(t, "Product SKU-001 at 3 units, reorder level 10", repo.opened[0].Message)
	assert.Contains(t, repo.resolved, model.KindOutOfStock)
}

func TestCheckProductBoundaryAtReorderLevel(t *testing.T) {
	// total == reorder level still counts as low stock.
	repo := newFakeAlertRepo()
	svc := NewAlertService(repo)

	err := svc.CheckProductTx(context.Background(), nil, state(10, 10))
	require.NoError(t, err)
	require.Len(t, repo.opened, 1)
	assert.Equal(t, model.KindLowStock, repo.opened[0].Kind)
}

func TestCheckProductResolvesBothAboveReorderLevel(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.open[model.KindLowStock] = true
	svc := NewAlertService(repo)

	err := svc.CheckProductTx(context.Background(), nil, state(11, 10))
	require.NoError(t, err)

	assert.Empty(t, repo.opened)
	assert.Contains(t, repo.resolved, model.KindLowStock)
	assert.Contains(t, repo.resolved, model.KindOutOfStock)
	assert.False(t, repo.open[model.KindLowStock])
}

func TestCheckProductDoesNotDuplicateOpenAlert(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.open[model.KindLowStock] = true
	svc := NewAlertService(repo)

	err := svc.CheckProductTx(context.Background(), nil, state(3, 10))
	require.NoError(t, err)
	assert.Empty(t, repo.opened)
}

func TestCheckProductSwapsLowStockForOutOfStock(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.open[model.KindLowStock] = true
	svc := NewAlertService(repo)

	err := svc.CheckProductTx(context.Background(), nil, state(0, 10))
	require.NoError(t, err)

	assert.False(t, repo.open[model.KindLowStock])
	assert.True(t, repo.open[model.KindOutOfStock])
}

func TestResolveValidatesInput(t *testing.T) {
	svc := NewAlertService(newFakeAlertRepo())

	_, err := svc.Resolve(context.Background(), model.ResolveRequest{ResolvedBy: "ops"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Resolve(context.Background(), model.ResolveRequest{AlertID: uuid.New()})
	assert.True(t, apperr.IsValidation(err))
}

func TestResolvePassesThrough(t *testing.T) {
	repo := newFakeAlertRepo()
	now := time.Now()
	by := "ops"
	repo.resolveResult = &model.Alert{ID: uuid.New(), ResolvedAt: &now, ResolvedBy: &by}
	svc := NewAlertService(repo)

	id := uuid.New()
	got, err := svc.Resolve(context.Background(), model.ResolveRequest{AlertID: id, ResolvedBy: "ops"})
	require.NoError(t, err)
	assert.Equal(t, repo.resolveResult, got)
	assert.Equal(t, id, repo.lastResolveID)
	assert.Equal(t, "ops", repo.lastResolveBy)
}

func TestListClassifiesUrgency(t *testing.T) {
	repo := newFakeAlertRepo()
	repo.alerts = []model.Alert{
		{Kind: model.KindOutOfStock, ObservedOnHand: 0, ObservedReorderLevel: 10},
		{Kind: model.KindLowStock, ObservedOnHand: 4, ObservedReorderLevel: 10},
		{Kind: model.KindLowStock, ObservedOnHand: 8, ObservedReorderLevel: 10},
	}
	svc := NewAlertService(repo)

	items, err := svc.List(context.Background(), model.StatusUnresolved)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, model.UrgencyCritical, items[0].Urgency)
	assert.Equal(t, model.UrgencyHigh, items[1].Urgency)
	assert.Equal(t, model.UrgencyMedium, items[2].Urgency)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := NewAlertService(newFakeAlertRepo())
	_, err := svc.List(context.Background(), model.StatusFilter("open"))
	assert.True(t, apperr.IsValidation(err))
}
