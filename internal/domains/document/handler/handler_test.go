package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-backend/internal/domains/document/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocService struct {
	lastFilter model.ListFilter
	listCalls  int
}

func (f *fakeDocService) PostPurchase(_ context.Context, _ model.PostPurchaseRequest, _ uuid.UUID) (*model.Purchase, error) {
	return nil, nil
}

func (f *fakeDocService) PostSale(_ context.Context, _ model.PostSaleRequest, _ uuid.UUID) (*model.Sale, error) {
	return nil, nil
}

func (f *fakeDocService) CancelPurchase(_ context.Context, _, _ uuid.UUID) (*model.Purchase, error) {
	return nil, nil
}

func (f *fakeDocService) CancelSale(_ context.Context, _, _ uuid.UUID) (*model.Sale, error) {
	return nil, nil
}

func (f *fakeDocService) GetPurchase(_ context.Context, _ uuid.UUID) (*model.Purchase, error) {
	return nil, nil
}

func (f *fakeDocService) ListPurchases(_ context.Context, filter model.ListFilter) ([]model.Purchase, int64, error) {
	f.lastFilter = filter
	f.listCalls++
	return []model.Purchase{}, 0, nil
}

func (f *fakeDocService) GetSale(_ context.Context, _ uuid.UUID) (*model.Sale, error) {
	return nil, nil
}

func (f *fakeDocService) ListSales(_ context.Context, filter model.ListFilter) ([]model.Sale, int64, error) {
	f.lastFilter = filter
	f.listCalls++
	return []model.Sale{}, 0, nil
}

func listRequest(t *testing.T, h func(*gin.Context), url string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, url, nil)
	h(c)
	return w
}

func TestListPurchasesDefaultsToPostedWithoutCompensators(t *testing.T) {
	svc := &fakeDocService{}
	h := NewDocumentHandler(svc)

	w := listRequest(t, h.ListPurchases, "/purchases")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusPosted, svc.lastFilter.Status)
	assert.False(t, svc.lastFilter.IncludeCompensations)
	assert.Equal(t, 50, svc.lastFilter.Limit)
	assert.Equal(t, 0, svc.lastFilter.Offset)
}

func TestListPurchasesParsesDateAndPartyFilters(t *testing.T) {
	svc := &fakeDocService{}
	h := NewDocumentHandler(svc)
	supplier := uuid.New()

	url := "/purchases?supplier_id=" + supplier.String() +
		"&since=2026-08-01T00:00:00Z&until=2026-09-01T00:00:00Z&status=all&include_compensations=true"
	w := listRequest(t, h.ListPurchases, url)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.Status(""), svc.lastFilter.Status, "status=all lifts the constraint")
	require.NotNil(t, svc.lastFilter.PartyID)
	assert.Equal(t, supplier, *svc.lastFilter.PartyID)
	require.NotNil(t, svc.lastFilter.Since)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), svc.lastFilter.Since.UTC())
	require.NotNil(t, svc.lastFilter.Until)
	assert.True(t, svc.lastFilter.IncludeCompensations)
}

func TestListSalesFiltersByCustomer(t *testing.T) {
	svc := &fakeDocService{}
	h := NewDocumentHandler(svc)
	customer := uuid.New()

	w := listRequest(t, h.ListSales, "/sales?customer_id="+customer.String()+"&status=cancelled")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusCancelled, svc.lastFilter.Status)
	require.NotNil(t, svc.lastFilter.PartyID)
	assert.Equal(t, customer, *svc.lastFilter.PartyID)
}

func TestListRejectsMalformedFilters(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unknown status", "/purchases?status=pending"},
		{"bad supplier id", "/purchases?supplier_id=not-a-uuid"},
		{"bad since", "/purchases?since=yesterday"},
		{"bad include flag", "/purchases?include_compensations=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeDocService{}
			h := NewDocumentHandler(svc)

			w := listRequest(t, h.ListPurchases, tt.url)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, svc.listCalls, "the service must not run on a bad filter")
		})
	}
}
