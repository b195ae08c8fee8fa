package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRowSet(t *testing.T) {
	t.Run("normalizes column names and row keys", func(t *testing.T) {
		rs := NewRowSet(
			[]string{"as_of_date", " Portfolio ", "CATEGORY"},
			[]Row{{"as_of_date": "2024-01-31", "portfolio": "P1", "category": "A"}},
		)

		assert.Equal(t, []string{"AS_OF_DATE", "PORTFOLIO", "CATEGORY"}, rs.Columns)
		require.Len(t, rs.Rows, 1)
		assert.Equal(t, "2024-01-31", rs.Rows[0]["AS_OF_DATE"])
		assert.Equal(t, "P1", rs.Rows[0]["PORTFOLIO"])
		assert.Equal(t, "A", rs.Rows[0]["CATEGORY"])
	})

	t.Run("has column is case-insensitive", func(t *testing.T) {
		rs := NewRowSet([]string{"CATEGORY"}, nil)
		assert.True(t, rs.HasColumn("category"))
		assert.False(t, rs.HasColumn("missing"))
	})
}

func TestRowSetClone(t *testing.T) {
	rs := NewRowSet([]string{"CATEGORY"}, []Row{{"CATEGORY": "A"}})

	clone := rs.Clone()
	clone.Rows[0]["CATEGORY"] = "B"
	clone.Columns[0] = "OTHER"

	assert.Equal(t, "A", rs.Rows[0]["CATEGORY"])
	assert.Equal(t, "CATEGORY", rs.Columns[0])
}

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "AS_OF_DATE", NormalizeColumn("  as_of_date "))
	assert.Equal(t, "CATEGORY", NormalizeColumn("Category"))
}
