// pkg/diff/diff.go
package diff

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/model"
)

// Detection errors. Added and removed rows are unsupported edits and
// are rejected explicitly rather than silently mis-attributed.
var (
	ErrMissingColumn = errors.New("column not present in row set")
	ErrRowsAdded     = errors.New("edited row set contains rows not in the original")
	ErrRowsRemoved   = errors.New("edited row set is missing original rows")
	ErrDuplicateKey  = errors.New("row set contains duplicate key tuples")
)

// Change is one detected edit: the row whose editable-column value
// differs between the original snapshot and the edited row set.
type Change struct {
	RowIndex int                    // index within the original row set
	Key      map[string]interface{} // full original primary-key tuple
	OldValue interface{}
	NewValue interface{}
	Row      model.Row // edited full row
}

// DetectChanges compares an edited row set against its original
// snapshot, looking only at editableColumn. Rows are matched by key
// rather than by position, so grid reordering does not mis-detect.
//
// Matching runs in two phases because the editable column may itself
// be part of the primary key (CATEGORY on the fact tables). First,
// rows are paired on the full key tuple; those pairs are unedited or
// had a non-key value edited. The unpaired remainder is then matched
// on the key minus the editable column, which pairs a row whose
// editable key value was edited with its original. Ambiguity is only
// an error within that remainder.
func DetectChanges(original, edited *model.RowSet, editableColumn string, keyColumns []string) ([]Change, error) {
	column := model.NormalizeColumn(editableColumn)
	if !original.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	if !edited.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}

	fullColumns := make([]string, 0, len(keyColumns))
	residualColumns := make([]string, 0, len(keyColumns))
	for _, keyCol := range keyColumns {
		normalized := model.NormalizeColumn(keyCol)
		if !original.HasColumn(normalized) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, normalized)
		}
		fullColumns = append(fullColumns, normalized)
		if normalized != column {
			residualColumns = append(residualColumns, normalized)
		}
	}

	// Phase one: pair rows whose full key tuple is unchanged. A
	// duplicate full tuple within either set is a genuine key violation.
	originalByKey, err := indexByKey(original, fullColumns)
	if err != nil {
		return nil, err
	}
	editedByKey, err := indexByKey(edited, fullColumns)
	if err != nil {
		return nil, err
	}

	pairs := make(map[int]int, original.Len()) // original row index -> edited row index
	var originalRest, editedRest []int
	for key, origIdx := range originalByKey {
		if editIdx, ok := editedByKey[key]; ok {
			pairs[origIdx] = editIdx
		} else {
			originalRest = append(originalRest, origIdx)
		}
	}
	for key, editIdx := range editedByKey {
		if _, ok := originalByKey[key]; !ok {
			editedRest = append(editedRest, editIdx)
		}
	}

	if len(editedRest) > len(originalRest) {
		return nil, fmt.Errorf("%w: %d row(s)", ErrRowsAdded, len(editedRest)-len(originalRest))
	}
	if len(originalRest) > len(editedRest) {
		return nil, fmt.Errorf("%w: %d row(s)", ErrRowsRemoved, len(originalRest)-len(editedRest))
	}

	// Phase two: the remainder holds rows whose editable key value was
	// edited. Match them on the key minus the editable column.
	if len(originalRest) > 0 {
		if err := pairRemainder(original, edited, originalRest, editedRest, residualColumns, pairs); err != nil {
			return nil, err
		}
	}

	// Walk originals in order so detected changes keep a stable order
	changes := make([]Change, 0)
	for i, origRow := range original.Rows {
		editedRow := edited.Rows[pairs[i]]

		oldValue := origRow[column]
		newValue := editedRow[column]
		if valuesEqual(oldValue, newValue) {
			continue
		}

		// The WHERE key for the point update is the original tuple,
		// including the pre-edit value of an editable key column.
		pk := make(map[string]interface{}, len(fullColumns))
		for _, keyCol := range fullColumns {
			pk[keyCol] = origRow[keyCol]
		}

		changes = append(changes, Change{
			RowIndex: i,
			Key:      pk,
			OldValue: oldValue,
			NewValue: newValue,
			Row:      editedRow.Clone(),
		})
	}

	return changes, nil
}

// pairRemainder matches the rows left unpaired by full-key matching on
// the residual key columns, recording the pairs it finds. With no
// residual columns it degenerates to pairing by row order.
func pairRemainder(original, edited *model.RowSet, originalRest, editedRest []int, residualColumns []string, pairs map[int]int) error {
	sort.Ints(originalRest)
	sort.Ints(editedRest)

	if len(residualColumns) == 0 {
		for i, origIdx := range originalRest {
			pairs[origIdx] = editedRest[i]
		}
		return nil
	}

	restByKey := make(map[string]int, len(originalRest))
	for _, origIdx := range originalRest {
		key := matchKey(original.Rows[origIdx], origIdx, residualColumns)
		if _, exists := restByKey[key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		restByKey[key] = origIdx
	}

	seen := make(map[string]bool, len(editedRest))
	for _, editIdx := range editedRest {
		key := matchKey(edited.Rows[editIdx], editIdx, residualColumns)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		seen[key] = true

		origIdx, ok := restByKey[key]
		if !ok {
			return fmt.Errorf("%w: 1 row(s)", ErrRowsAdded)
		}
		pairs[origIdx] = editIdx
		delete(restByKey, key)
	}
	if len(restByKey) > 0 {
		return fmt.Errorf("%w: %d row(s)", ErrRowsRemoved, len(restByKey))
	}
	return nil
}

// indexByKey maps each row's key tuple to its row index.
// Duplicate tuples make key matching ambiguous and are rejected.
func indexByKey(rs *model.RowSet, matchColumns []string) (map[string]int, error) {
	index := make(map[string]int, rs.Len())
	for i, row := range rs.Rows {
		key := matchKey(row, i, matchColumns)
		if _, exists := index[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		index[key] = i
	}
	return index, nil
}

// matchKey renders a row's match columns as a single canonical string.
// An empty matchColumns list degenerates to positional matching.
func matchKey(row model.Row, index int, matchColumns []string) string {
	if len(matchColumns) == 0 {
		return fmt.Sprintf("#%d", index)
	}

	parts := make([]string, len(matchColumns))
	for i, col := range matchColumns {
		parts[i] = canonicalValue(row[col])
	}
	return strings.Join(parts, "\x1f")
}

// valuesEqual is the exact (not fuzzy) comparison of the editable
// column: no type coercion beyond byte-slice and timestamp normalization
func valuesEqual(a, b interface{}) bool {
	a, b = canonicalize(a), canonicalize(b)

	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}

	return reflect.DeepEqual(a, b)
}

func canonicalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func canonicalValue(v interface{}) string {
	switch val := canonicalize(v).(type) {
	case nil:
		return "\x00"
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}
