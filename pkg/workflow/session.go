// pkg/workflow/session.go
package workflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/catalog"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/diff"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/model"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/store"
)

// SessionState represents where an interactive session is in the
// module → table → display → submit flow
type SessionState string

const (
	StateSelectModule SessionState = "select_module"
	StateSelectTable  SessionState = "select_table"
	StateDisplay      SessionState = "display"
	StateWriting      SessionState = "writing"
)

// CatalogReader loads override reference entries
type CatalogReader interface {
	LoadAll(ctx context.Context) ([]catalog.Entry, error)
	LoadModule(ctx context.Context, module int) ([]catalog.Entry, error)
}

// TableReader reads a named table into a row set
type TableReader interface {
	ReadTable(ctx context.Context, name string) (*model.RowSet, error)
}

// OverrideApplier persists one accepted row edit
type OverrideApplier interface {
	ApplyOverride(ctx context.Context, req store.OverrideRequest) error
}

// KeyResolver maps a table name to its ordered primary-key columns
type KeyResolver interface {
	Resolve(table string) ([]string, error)
}

// Session orchestrates one interactive override session. All session
// state lives here rather than in ambient globals; a session serves one
// submit at a time and is not safe for concurrent use.
type Session struct {
	ID string

	catalog CatalogReader
	reader  TableReader
	writer  OverrideApplier
	keys    KeyResolver
	logger  *zap.Logger
	metrics *Metrics

	state       SessionState
	module      int
	moduleName  string
	entries     []catalog.Entry
	entry       catalog.Entry
	keyColumns  []string
	baseline    *model.RowSet
	lastUpdated time.Time
}

// NewSession creates a session over the given collaborators
func NewSession(cat CatalogReader, reader TableReader, writer OverrideApplier, keys KeyResolver) *Session {
	id := uuid.New().String()
	return &Session{
		ID:      id,
		catalog: cat,
		reader:  reader,
		writer:  writer,
		keys:    keys,
		logger:  zap.L().Named("workflow").With(zap.String("session_id", id)),
		metrics: NewMetrics(),
		state:   StateSelectModule,
	}
}

// WithMetrics attaches a shared metrics collector to the session
func (s *Session) WithMetrics(m *Metrics) *Session {
	if m != nil {
		s.metrics = m
	}
	return s
}

// State returns the session's current state
func (s *Session) State() SessionState {
	return s.state
}

// SelectModuleParam resolves a raw module parameter, as supplied by the
// caller context (a query parameter in the original surface). An empty
// value and a non-integer value halt with distinct conditions.
func (s *Session) SelectModuleParam(ctx context.Context, raw string) error {
	if raw == "" {
		return ErrNoModuleSelected
	}

	module, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidModule, raw)
	}

	return s.SelectModule(ctx, module)
}

// SelectModule loads the catalog entries for a module. A module with no
// entries halts the session path; the operator fixes the catalog, the
// session does not retry.
func (s *Session) SelectModule(ctx context.Context, module int) error {
	entries, err := s.catalog.LoadModule(ctx, module)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.logger.Warn("Module not found in override catalog", zap.Int("module", module))
		return fmt.Errorf("%w: %d", ErrUnknownModule, module)
	}

	s.module = module
	s.moduleName = entries[0].ModuleName
	s.entries = entries
	s.setState(StateSelectTable)

	s.logger.Info("Module selected",
		zap.Int("module", module),
		zap.String("module_name", s.moduleName),
		zap.Int("entries", len(entries)))
	return nil
}

// Module returns the selected module number
func (s *Session) Module() int {
	return s.module
}

// ModuleName returns the display name from the module's first entry
func (s *Session) ModuleName() string {
	return s.moduleName
}

// Tables returns the source tables configured for the selected module,
// in catalog order
func (s *Session) Tables() []string {
	seen := make(map[string]bool, len(s.entries))
	tables := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if e.SourceTable == "" || seen[e.SourceTable] {
			continue
		}
		seen[e.SourceTable] = true
		tables = append(tables, e.SourceTable)
	}
	return tables
}

// SelectTable picks a source table from the module's configured set and
// resolves its primary key. An unregistered key mapping is fatal for
// the table: no write may be attempted without a known key.
func (s *Session) SelectTable(name string) error {
	if s.state == StateSelectModule {
		return ErrNoModuleSelected
	}

	tables := s.Tables()
	if len(tables) == 0 {
		return fmt.Errorf("%w: module %d", ErrNoTablesConfigured, s.module)
	}
	if name == "" {
		return ErrNoTableSelected
	}

	var entry *catalog.Entry
	for i := range s.entries {
		if s.entries[i].SourceTable == name {
			entry = &s.entries[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSourceTable, name)
	}

	keyColumns, err := s.keys.Resolve(entry.SourceTable)
	if err != nil {
		s.logger.Error("Primary key resolution failed",
			zap.String("table", entry.SourceTable),
			zap.Error(err))
		return err
	}

	s.entry = *entry
	s.keyColumns = keyColumns
	s.baseline = nil
	s.setState(StateDisplay)

	s.logger.Info("Table selected",
		zap.String("source_table", entry.SourceTable),
		zap.String("target_table", entry.TargetTable),
		zap.String("editable_column", entry.EditableColumn),
		zap.Strings("key_columns", keyColumns))
	return nil
}

// Entry returns the catalog entry for the selected table
func (s *Session) Entry() catalog.Entry {
	return s.entry
}

// Refresh fetches the source table's current rows as the edit baseline
// and returns an independent copy for the caller to edit. A read
// failure is non-fatal: the session stays usable and the caller reports
// an empty state.
func (s *Session) Refresh(ctx context.Context) (*model.RowSet, error) {
	if s.state != StateDisplay {
		return nil, ErrNoTableSelected
	}

	rows, err := s.reader.ReadTable(ctx, s.entry.SourceTable)
	if err != nil {
		s.baseline = nil
		s.logger.Warn("Baseline read failed",
			zap.String("table", s.entry.SourceTable),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	s.baseline = rows
	return rows.Clone(), nil
}

// OverrideHistory fetches the accumulated override trail from the
// target table. Display only; most recent AS_AT_DATE is authoritative.
func (s *Session) OverrideHistory(ctx context.Context) (*model.RowSet, error) {
	if s.state != StateDisplay {
		return nil, ErrNoTableSelected
	}

	rows, err := s.reader.ReadTable(ctx, s.entry.TargetTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return rows, nil
}

// Submit validates an edited row set against the baseline and writes
// an override per changed row. Writes are best effort across rows:
// a row's failure is recorded on the report and later rows proceed.
func (s *Session) Submit(ctx context.Context, edited *model.RowSet) (*Report, error) {
	if s.state != StateDisplay {
		return nil, ErrNoTableSelected
	}
	if s.baseline == nil {
		return nil, ErrNoBaseline
	}

	changes, err := diff.DetectChanges(s.baseline, edited, s.entry.EditableColumn, s.keyColumns)
	if err != nil {
		return nil, err
	}

	report := NewReport(s.ID, s.module, s.entry.SourceTable, s.entry.TargetTable)
	if len(changes) == 0 {
		report.NoChanges = true
		report.Complete()
		s.logger.Info("Submit with no changes", zap.String("table", s.entry.SourceTable))
		return report, nil
	}

	s.setState(StateWriting)
	s.logger.Info("Writing overrides",
		zap.String("table", s.entry.SourceTable),
		zap.Int("changed_rows", len(changes)))

	for _, change := range changes {
		req := store.OverrideRequest{
			SourceTable:    s.entry.SourceTable,
			TargetTable:    s.entry.TargetTable,
			KeyColumns:     s.keyColumns,
			Key:            change.Key,
			EditableColumn: s.entry.EditableColumn,
			NewValue:       change.NewValue,
			Columns:        s.baseline.Columns,
			Row:            change.Row,
		}

		result := RowResult{
			RowIndex: change.RowIndex,
			Key:      change.Key,
			NewValue: change.NewValue,
		}
		result.Err = s.writer.ApplyOverride(ctx, req)
		report.AddRowResult(result)
	}
	report.Complete()
	s.metrics.RecordSubmit(report)

	if report.Succeeded() > 0 {
		s.lastUpdated = report.EndTime
	}

	s.refreshBaseline(ctx, changes, report)
	s.setState(StateDisplay)

	s.logger.Info("Submit complete",
		zap.Int("changed", report.Changed()),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()))
	return report, nil
}

// LastUpdated returns the timestamp of the last successful write, zero
// if the session has not written anything
func (s *Session) LastUpdated() time.Time {
	return s.lastUpdated
}

// refreshBaseline re-reads the source table after a write batch so the
// next diff runs against the just-written state. If the re-read fails,
// the in-memory baseline is patched with the succeeded values instead.
func (s *Session) refreshBaseline(ctx context.Context, changes []diff.Change, report *Report) {
	rows, err := s.reader.ReadTable(ctx, s.entry.SourceTable)
	if err == nil {
		s.baseline = rows
		return
	}

	s.logger.Warn("Baseline refresh failed after write, patching in memory",
		zap.String("table", s.entry.SourceTable),
		zap.Error(err))

	column := model.NormalizeColumn(s.entry.EditableColumn)
	for i, change := range changes {
		if !report.Rows[i].Succeeded() {
			continue
		}
		if change.RowIndex < len(s.baseline.Rows) {
			s.baseline.Rows[change.RowIndex][column] = change.NewValue
		}
	}
}

// setState transitions the session state machine
func (s *Session) setState(state SessionState) {
	if s.state != state {
		s.logger.Debug("Session state changed",
			zap.String("from", string(s.state)),
			zap.String("to", string(state)))
		s.state = state
	}
}
