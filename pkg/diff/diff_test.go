package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/model"
)

var factKey = []string{"AS_OF_DATE", "PORTFOLIO", "PORTFOLIO_SEGMENT", "CATEGORY"}

func factRows(t *testing.T, rows ...model.Row) *model.RowSet {
	t.Helper()
	return model.NewRowSet(
		[]string{"AS_OF_DATE", "PORTFOLIO", "PORTFOLIO_SEGMENT", "CATEGORY", "AMOUNT"},
		rows,
	)
}

func factRow(asOf, portfolio, segment, category string, amount interface{}) model.Row {
	return model.Row{
		"AS_OF_DATE":        asOf,
		"PORTFOLIO":         portfolio,
		"PORTFOLIO_SEGMENT": segment,
		"CATEGORY":          category,
		"AMOUNT":            amount,
	}
}

func TestDetectChangesNoOp(t *testing.T) {
	original := factRows(t,
		factRow("2024-01-31", "P1", "S1", "A", 100),
		factRow("2024-01-31", "P1", "S2", "B", 200),
	)

	changes, err := DetectChanges(original, original.Clone(), "AMOUNT", factKey)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDetectChangesSingleEdit(t *testing.T) {
	original := factRows(t,
		factRow("2024-01-31", "P1", "S1", "A", 100),
		factRow("2024-01-31", "P1", "S2", "B", 200),
	)
	edited := original.Clone()
	edited.Rows[1]["AMOUNT"] = 250

	changes, err := DetectChanges(original, edited, "AMOUNT", factKey)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	change := changes[0]
	assert.Equal(t, 1, change.RowIndex)
	assert.Equal(t, 200, change.OldValue)
	assert.Equal(t, 250, change.NewValue)
	assert.Equal(t, map[string]interface{}{
		"AS_OF_DATE":        "2024-01-31",
		"PORTFOLIO":         "P1",
		"PORTFOLIO_SEGMENT": "S2",
		"CATEGORY":          "B",
	}, change.Key)
	assert.Equal(t, 250, change.Row["AMOUNT"])
}

func TestDetectChangesReorderedRows(t *testing.T) {
	// Key-based matching: grid reordering must not mis-detect edits
	original := factRows(t,
		factRow("2024-01-31", "P1", "S1", "A", 100),
		factRow("2024-01-31", "P1", "S2", "B", 200),
	)
	edited := factRows(t,
		factRow("2024-01-31", "P1", "S2", "B", 200),
		factRow("2024-01-31", "P1", "S1", "A", 150),
	)

	changes, err := DetectChanges(original, edited, "AMOUNT", factKey)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, 0, changes[0].RowIndex)
	assert.Equal(t, 100, changes[0].OldValue)
	assert.Equal(t, 150, changes[0].NewValue)
}

func TestDetectChangesEditableKeyColumn(t *testing.T) {
	// CATEGORY is both part of the key and the editable column; the
	// edited row no longer matches on the full tuple, so it pairs on
	// the remaining key columns, and the change carries the original
	// tuple for the point update.
	original := factRows(t,
		factRow("2024-01-31", "P1", "S1", "A", 100),
	)
	edited := original.Clone()
	edited.Rows[0]["CATEGORY"] = "B"

	changes, err := DetectChanges(original, edited, "CATEGORY", factKey)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	change := changes[0]
	assert.Equal(t, "A", change.OldValue)
	assert.Equal(t, "B", change.NewValue)
	assert.Equal(t, "A", change.Key["CATEGORY"], "point update must target the pre-edit key")
	assert.Equal(t, "B", change.Row["CATEGORY"])
}

func TestDetectChangesEditableKeyColumnMultipleCategories(t *testing.T) {
	// The same (AS_OF_DATE, PORTFOLIO, PORTFOLIO_SEGMENT) legitimately
	// carries several CATEGORY rows. Rows that still match on the full
	// tuple must pair there, not collide on the tuple minus CATEGORY.
	original := factRows(t,
		factRow("2024-01-31", "P1", "S1", "A", 100),
		factRow("2024-01-31", "P1", "S1", "B", 200),
		factRow("2024-01-31", "P1", "S1", "C", 300),
	)

	t.Run("unedited copy yields no changes", func(t *testing.T) {
		changes, err := DetectChanges(original, original.Clone(), "CATEGORY", factKey)
		require.NoError(t, err)
		assert.Empty(t, changes)
	})

	t.Run("single category edit among siblings", func(t *testing.T) {
		edited := original.Clone()
		edited.Rows[1]["CATEGORY"] = "B2"

		changes, err := DetectChanges(original, edited, "CATEGORY", factKey)
		require.NoError(t, err)
		require.Len(t, changes, 1)

		change := changes[0]
		assert.Equal(t, 1, change.RowIndex)
		assert.Equal(t, "B", change.OldValue)
		assert.Equal(t, "B2", change.NewValue)
		assert.Equal(t, "B", change.Key["CATEGORY"], "point update must target the pre-edit key")
	})

	t.Run("edit colliding with a sibling tuple", func(t *testing.T) {
		edited := original.Clone()
		edited.Rows[0]["CATEGORY"] = "B"

		_, err := DetectChanges(original, edited, "CATEGORY", factKey)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("two sibling edits are ambiguous", func(t *testing.T) {
		edited := original.Clone()
		edited.Rows[0]["CATEGORY"] = "A2"
		edited.Rows[1]["CATEGORY"] = "B2"

		_, err := DetectChanges(original, edited, "CATEGORY", factKey)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestDetectChangesRejectsStructuralEdits(t *testing.T) {
	original := factRows(t,
		factRow("2024-01-31", "P1", "S1", "A", 100),
		factRow("2024-01-31", "P1", "S2", "B", 200),
	)

	t.Run("added row", func(t *testing.T) {
		edited := original.Clone()
		edited.Rows = append(edited.Rows, factRow("2024-01-31", "P1", "S3", "C", 300))

		_, err := DetectChanges(original, edited, "AMOUNT", factKey)
		assert.ErrorIs(t, err, ErrRowsAdded)
	})

	t.Run("removed row", func(t *testing.T) {
		edited := original.Clone()
		edited.Rows = edited.Rows[:1]

		_, err := DetectChanges(original, edited, "AMOUNT", factKey)
		assert.ErrorIs(t, err, ErrRowsRemoved)
	})

	t.Run("duplicate key tuples", func(t *testing.T) {
		duplicated := factRows(t,
			factRow("2024-01-31", "P1", "S1", "A", 100),
			factRow("2024-01-31", "P1", "S1", "A", 100),
		)

		_, err := DetectChanges(duplicated, duplicated.Clone(), "AMOUNT", factKey)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestDetectChangesMissingColumns(t *testing.T) {
	original := factRows(t, factRow("2024-01-31", "P1", "S1", "A", 100))

	t.Run("editable column absent", func(t *testing.T) {
		_, err := DetectChanges(original, original.Clone(), "NOT_THERE", factKey)
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("key column absent", func(t *testing.T) {
		_, err := DetectChanges(original, original.Clone(), "AMOUNT", []string{"REGION"})
		assert.ErrorIs(t, err, ErrMissingColumn)
	})
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  interface{}
		equal bool
	}{
		{name: "identical strings", a: "A", b: "A", equal: true},
		{name: "different strings", a: "A", b: "B", equal: false},
		{name: "byte slice vs string", a: []byte("A"), b: "A", equal: true},
		{name: "nils", a: nil, b: nil, equal: true},
		{name: "nil vs value", a: nil, b: "A", equal: false},
		{name: "no numeric coercion", a: 100, b: "100", equal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, valuesEqual(tt.a, tt.b))
		})
	}
}
