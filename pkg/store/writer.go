// pkg/store/writer.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/model"
)

// Columns and marker stamped onto every appended override record
const (
	TimestampColumn  = "AS_AT_DATE"
	RecordFlagColumn = "RECORD_FLAG"
	OverrideMarker   = "O"
)

// OverrideRequest describes one accepted row edit: the point update to
// issue against the source table and the full row to append to the
// target table.
type OverrideRequest struct {
	SourceTable    string
	TargetTable    string
	KeyColumns     []string               // ordered primary-key columns
	Key            map[string]interface{} // original primary-key values
	EditableColumn string
	NewValue       interface{}
	Columns        []string  // ordered row columns
	Row            model.Row // full row with the new value substituted
}

// statementExecer is the slice of the connector the writer needs
type statementExecer interface {
	DriverName() string
	ExecWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (sql.Result, error)
}

// OverrideWriter persists accepted edits. Per row it issues a point
// update on the source table and appends one record to the target
// table; target tables are append-only from this system's perspective.
type OverrideWriter struct {
	exec     statementExecer
	dialect  Dialect
	bindType int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOverrideWriter creates a writer over the given connector
func NewOverrideWriter(exec statementExecer, timeout time.Duration) (*OverrideWriter, error) {
	dialect, err := DialectFor(exec.DriverName())
	if err != nil {
		return nil, err
	}

	return &OverrideWriter{
		exec:     exec,
		dialect:  dialect,
		bindType: sqlx.BindType(exec.DriverName()),
		timeout:  timeout,
		logger:   zap.L().Named("override-writer"),
	}, nil
}

// ApplyOverride performs both effects for one changed row. Either step
// failing yields a *WriteError naming the step; the caller decides
// whether to continue with remaining rows.
func (w *OverrideWriter) ApplyOverride(ctx context.Context, req OverrideRequest) error {
	update, updateArgs, err := buildUpdate(w.dialect, w.bindType, req)
	if err != nil {
		return &WriteError{Table: req.SourceTable, Step: StepUpdate, Key: req.Key, Err: err}
	}

	insert, insertArgs, err := buildInsert(w.dialect, w.bindType, req)
	if err != nil {
		return &WriteError{Table: req.TargetTable, Step: StepInsert, Key: req.Key, Err: err}
	}

	if _, err := w.exec.ExecWithTimeout(ctx, update, w.timeout, updateArgs...); err != nil {
		w.logger.Error("Source table update failed",
			zap.String("table", req.SourceTable),
			zap.String("column", req.EditableColumn),
			zap.Any("key", req.Key),
			zap.Error(err))
		return &WriteError{Table: req.SourceTable, Step: StepUpdate, Key: req.Key, Err: err}
	}

	if _, err := w.exec.ExecWithTimeout(ctx, insert, w.timeout, insertArgs...); err != nil {
		// The source row is already updated at this point. Surface the
		// partial completion instead of pretending the row failed cleanly.
		w.logger.Error("Override append failed after source update",
			zap.String("table", req.TargetTable),
			zap.Any("key", req.Key),
			zap.Error(err))
		return &WriteError{Table: req.TargetTable, Step: StepInsert, Key: req.Key, Err: err}
	}

	w.logger.Info("Applied override",
		zap.String("source_table", req.SourceTable),
		zap.String("target_table", req.TargetTable),
		zap.String("column", req.EditableColumn),
		zap.Any("key", req.Key))
	return nil
}

// buildUpdate renders the point update of the editable column, keyed by
// equality on every primary-key column. Values are always bound.
func buildUpdate(d Dialect, bindType int, req OverrideRequest) (string, []interface{}, error) {
	if len(req.KeyColumns) == 0 {
		return "", nil, fmt.Errorf("refusing keyless update of %s", req.SourceTable)
	}

	table, err := d.QuoteIdentifier(req.SourceTable)
	if err != nil {
		return "", nil, err
	}
	column, err := d.QuoteIdentifier(req.EditableColumn)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	sb.WriteString(column)
	sb.WriteString(" = ?")

	args := []interface{}{req.NewValue}
	for i, keyCol := range req.KeyColumns {
		quoted, err := d.QuoteIdentifier(keyCol)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(quoted)
		sb.WriteString(" = ?")
		args = append(args, req.Key[model.NormalizeColumn(keyCol)])
	}

	return sqlx.Rebind(bindType, sb.String()), args, nil
}

// buildInsert renders the append into the target table: every row
// column plus the write timestamp and the override marker. The
// timestamp is generated server side.
func buildInsert(d Dialect, bindType int, req OverrideRequest) (string, []interface{}, error) {
	table, err := d.QuoteIdentifier(req.TargetTable)
	if err != nil {
		return "", nil, err
	}

	var names strings.Builder
	var placeholders strings.Builder
	args := make([]interface{}, 0, len(req.Columns)+1)

	for _, col := range req.Columns {
		normalized := model.NormalizeColumn(col)
		// A re-read of a target table carries these already; never double-write them
		if normalized == TimestampColumn || normalized == RecordFlagColumn {
			continue
		}
		quoted, err := d.QuoteIdentifier(col)
		if err != nil {
			return "", nil, err
		}
		if names.Len() > 0 {
			names.WriteString(", ")
			placeholders.WriteString(", ")
		}
		names.WriteString(quoted)
		placeholders.WriteString("?")
		args = append(args, req.Row[normalized])
	}

	if len(args) == 0 {
		return "", nil, fmt.Errorf("no columns to append for table %s", req.TargetTable)
	}

	tsCol, err := d.QuoteIdentifier(TimestampColumn)
	if err != nil {
		return "", nil, err
	}
	flagCol, err := d.QuoteIdentifier(RecordFlagColumn)
	if err != nil {
		return "", nil, err
	}

	query := "INSERT INTO " + table + " (" + names.String() + ", " + tsCol + ", " + flagCol +
		") VALUES (" + placeholders.String() + ", " + d.CurrentTimestamp() + ", ?)"
	args = append(args, OverrideMarker)

	return sqlx.Rebind(bindType, query), args, nil
}
