// pkg/catalog/catalog.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/connector"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/store"
)

// ErrCatalogUnavailable is returned when the catalog table cannot be read.
// An empty result for a module is not an error; see Reader.LoadModule.
var ErrCatalogUnavailable = errors.New("override catalog unavailable")

// Entry is one row of the override catalog: which column of which source
// table a module may edit, and where its override trail is appended.
type Entry struct {
	Module         int
	ModuleName     string
	SourceTable    string
	TargetTable    string
	EditableColumn string
}

// Reader loads override reference entries from the catalog table.
// The catalog is owned by an external configuration process; this
// reader never writes to it.
type Reader struct {
	conn    connector.DatabaseConnector
	dialect store.Dialect
	table   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewReader creates a catalog reader backed by the given connector
func NewReader(conn connector.DatabaseConnector, table string, timeout time.Duration) (*Reader, error) {
	dialect, err := store.DialectFor(conn.DriverName())
	if err != nil {
		return nil, err
	}

	if _, err := dialect.QuoteIdentifier(table); err != nil {
		return nil, fmt.Errorf("invalid catalog table name %q: %w", table, err)
	}

	return &Reader{
		conn:    conn,
		dialect: dialect,
		table:   table,
		timeout: timeout,
		logger:  zap.L().Named("catalog"),
	}, nil
}

// LoadAll returns every catalog entry, used to enumerate available modules
func (r *Reader) LoadAll(ctx context.Context) ([]Entry, error) {
	return r.load(ctx, nil)
}

// LoadModule returns the entries for one module. A module with no
// entries yields an empty slice, not an error: callers treat empty as
// "not configured" and halt the workflow rather than retry.
func (r *Reader) LoadModule(ctx context.Context, module int) ([]Entry, error) {
	return r.load(ctx, &module)
}

func (r *Reader) load(ctx context.Context, module *int) ([]Entry, error) {
	table, err := r.dialect.QuoteIdentifier(r.table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	query := "SELECT MODULE, MODULE_NAME, SOURCE_TABLE, TARGET_TABLE, EDITABLE_COLUMN FROM " + table
	args := []interface{}{}
	if module != nil {
		query += " WHERE MODULE = ?"
		args = append(args, *module)
	}
	// Deterministic order so duplicate handling is stable across loads
	query += " ORDER BY MODULE, SOURCE_TABLE"
	query = sqlx.Rebind(sqlx.BindType(r.conn.DriverName()), query)

	rows, err := r.conn.QueryWithTimeout(ctx, query, r.timeout, args...)
	if err != nil {
		r.logger.Error("Failed to read override catalog",
			zap.String("table", r.table),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return dedupeEntries(entries), nil
}

// scanEntries reads catalog rows into entries
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Module, &e.ModuleName, &e.SourceTable, &e.TargetTable, &e.EditableColumn); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return entries, nil
}

// dedupeEntries keeps the first entry per (module, source table) pair.
// The catalog contract is one entry per pair; duplicates are tolerated
// and resolved deterministically by query order.
func dedupeEntries(entries []Entry) []Entry {
	type pair struct {
		module int
		table  string
	}

	seen := make(map[pair]bool, len(entries))
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		p := pair{module: e.Module, table: e.SourceTable}
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, e)
	}
	return result
}
