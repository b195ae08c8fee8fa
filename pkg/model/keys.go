// pkg/model/keys.go
package model

import (
	"errors"
	"fmt"
)

// ErrUnknownTable is returned when a table has no registered primary key.
// Resolution fails closed: no write path may proceed without a known key.
var ErrUnknownTable = errors.New("no primary key registered for table")

// factTableKey is the key shared by every observed fact table
var factTableKey = []string{"AS_OF_DATE", "PORTFOLIO", "PORTFOLIO_SEGMENT", "CATEGORY"}

// KeyRegistry maps table names to their ordered primary-key columns.
// The mapping is operator-supplied, not inferred from schemas.
type KeyRegistry struct {
	keys map[string][]string
}

// NewKeyRegistry creates an empty registry
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{keys: make(map[string][]string)}
}

// DefaultKeyRegistry returns a registry preloaded with the known fact tables
func DefaultKeyRegistry() *KeyRegistry {
	r := NewKeyRegistry()
	for _, table := range []string{
		"fact_portfolio_perf",
		"fact_income",
		"fact_msme",
		"fact_orders",
		"fact_customers",
	} {
		r.Register(table, factTableKey)
	}
	return r
}

// Register records the primary-key columns for a table, replacing any
// prior registration. Names are normalized to canonical case.
func (r *KeyRegistry) Register(table string, columns []string) {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = NormalizeColumn(col)
	}
	r.keys[NormalizeColumn(table)] = normalized
}

// Resolve returns the ordered primary-key columns for a table.
// Returns ErrUnknownTable for unregistered tables.
func (r *KeyRegistry) Resolve(table string) ([]string, error) {
	columns, ok := r.keys[NormalizeColumn(table)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	result := make([]string, len(columns))
	copy(result, columns)
	return result, nil
}

// Tables returns the registered table names
func (r *KeyRegistry) Tables() []string {
	tables := make([]string, 0, len(r.keys))
	for table := range r.keys {
		tables = append(tables, table)
	}
	return tables
}
