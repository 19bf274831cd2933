package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestFromErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("delta", "must not be zero"), http.StatusBadRequest},
		{"not found", apperr.NotFound("product", "p1"), http.StatusNotFound},
		{"conflict", apperr.Conflict("sale", "duplicate invoice number"), http.StatusConflict},
		{"insufficient stock", apperr.InsufficientStock(2, 5), http.StatusConflict},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"transient", apperr.Transient(errors.New("io")), http.StatusInternalServerError},
		{"fatal", apperr.Fatal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testContext()
			FromError(c, tt.err)
			assert.Equal(t, tt.want, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestFatalErrorDetailIsHidden(t *testing.T) {
	c, rec := testContext()
	FromError(c, apperr.Fatal(errors.New("connection string with password")))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
}

func TestOKEnvelope(t *testing.T) {
	c, rec := testContext()
	OK(c, "listed", []string{"a", "b"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "listed", body.Message)
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Error)
}

func TestOKWithSummaryEnvelope(t *testing.T) {
	c, rec := testContext()
	OKWithSummary(c, "alerts", []string{}, map[string]int{"total": 0})

	assert.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Summary)
}

func TestCreatedEnvelope(t *testing.T) {
	c, rec := testContext()
	Created(c, "created", map[string]string{"id": "x"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
