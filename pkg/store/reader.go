// pkg/store/reader.go
package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/connector"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/model"
)

// TableReader reads an arbitrary named table into a row set. Pure read,
// no side effects; column names are normalized to canonical case.
type TableReader struct {
	db      *sqlx.DB
	dialect Dialect
	timeout time.Duration
	logger  *zap.Logger
}

// NewTableReader creates a reader over the given connector
func NewTableReader(conn connector.DatabaseConnector, timeout time.Duration) (*TableReader, error) {
	dialect, err := DialectFor(conn.DriverName())
	if err != nil {
		return nil, err
	}

	return &TableReader{
		db:      sqlx.NewDb(conn.DB(), conn.DriverName()),
		dialect: dialect,
		timeout: timeout,
		logger:  zap.L().Named("table-reader"),
	}, nil
}

// ReadTable fetches the full current row set of a table. On failure it
// returns a nil row set and a *ReadError wrapping the driver error.
func (r *TableReader) ReadTable(ctx context.Context, name string) (*model.RowSet, error) {
	table, err := r.dialect.QuoteIdentifier(name)
	if err != nil {
		return nil, &ReadError{Table: name, Err: err}
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(queryCtx, "SELECT * FROM "+table)
	if err != nil {
		r.logger.Error("Failed to read table",
			zap.String("table", name),
			zap.Error(err))
		return nil, &ReadError{Table: name, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ReadError{Table: name, Err: err}
	}

	records := make([]model.Row, 0)
	for rows.Next() {
		record := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(record); err != nil {
			return nil, &ReadError{Table: name, Err: err}
		}
		records = append(records, normalizeValues(record))
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Table: name, Err: err}
	}

	result := model.NewRowSet(columns, records)
	r.logger.Debug("Read table",
		zap.String("table", name),
		zap.Int("rows", result.Len()),
		zap.Int("columns", len(result.Columns)))
	return result, nil
}

// normalizeValues converts driver byte slices to strings so values
// compare exactly across a fetch/edit round trip
func normalizeValues(record map[string]interface{}) model.Row {
	row := make(model.Row, len(record))
	for col, val := range record {
		if b, ok := val.([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = val
	}
	return row
}
