package repository

import (
	"testing"
	"time"

	"inventory-backend/internal/domains/document/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListWhere(t *testing.T) {
	supplier := uuid.New()
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("zero filter hides compensators only", func(t *testing.T) {
		where, args, idx := buildListWhere(model.ListFilter{}, "supplier_id")
		assert.Equal(t, " WHERE 1=1 AND NOT is_compensation", where)
		assert.Empty(t, args)
		assert.Equal(t, 1, idx)
	})

	t.Run("status filter binds one placeholder", func(t *testing.T) {
		where, args, idx := buildListWhere(model.ListFilter{Status: model.StatusPosted}, "supplier_id")
		assert.Equal(t, " WHERE 1=1 AND status = $1 AND NOT is_compensation", where)
		require.Len(t, args, 1)
		assert.Equal(t, model.StatusPosted, args[0])
		assert.Equal(t, 2, idx)
	})

	t.Run("party column follows the document type", func(t *testing.T) {
		filter := model.ListFilter{PartyID: &supplier}

		where, _, _ := buildListWhere(filter, "supplier_id")
		assert.Contains(t, where, "supplier_id = $1")

		where, _, _ = buildListWhere(filter, "customer_id")
		assert.Contains(t, where, "customer_id = $1")
	})

	t.Run("full filter numbers placeholders in order", func(t *testing.T) {
		where, args, idx := buildListWhere(model.ListFilter{
			Status:               model.StatusCancelled,
			PartyID:              &supplier,
			Since:                &since,
			Until:                &until,
			IncludeCompensations: true,
		}, "customer_id")

		assert.Equal(t,
			" WHERE 1=1 AND status = $1 AND customer_id = $2 AND created_at >= $3 AND created_at < $4",
			where)
		require.Len(t, args, 4)
		assert.Equal(t, since, args[2])
		assert.Equal(t, until, args[3])
		assert.Equal(t, 5, idx)
	})

	t.Run("date window is half-open", func(t *testing.T) {
		where, _, _ := buildListWhere(model.ListFilter{Since: &since, Until: &until}, "supplier_id")
		assert.Contains(t, where, "created_at >= $1")
		assert.Contains(t, where, "created_at < $2")
	})
}
