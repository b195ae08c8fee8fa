// pkg/workflow/metrics.go
package workflow

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// tableMetrics accumulates outcomes for one source table
type tableMetrics struct {
	Submits     int
	NoChanges   int
	RowsWritten int
	RowsFailed  int
	LastWrite   time.Time
}

// Metrics aggregates submit outcomes across sessions. Shared by the
// process, so it takes its own lock even though a single session is
// sequential.
type Metrics struct {
	mu     sync.Mutex
	tables map[string]*tableMetrics
}

// NewMetrics creates an empty collector
func NewMetrics() *Metrics {
	return &Metrics{tables: make(map[string]*tableMetrics)}
}

// RecordSubmit folds one submit report into the collector
func (m *Metrics) RecordSubmit(report *Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tm, ok := m.tables[report.SourceTable]
	if !ok {
		tm = &tableMetrics{}
		m.tables[report.SourceTable] = tm
	}

	tm.Submits++
	if report.NoChanges {
		tm.NoChanges++
		return
	}

	tm.RowsWritten += report.Succeeded()
	tm.RowsFailed += report.Failed()
	if report.Succeeded() > 0 && report.EndTime.After(tm.LastWrite) {
		tm.LastWrite = report.EndTime
	}
}

// TotalRowsWritten returns the number of override rows written
func (m *Metrics) TotalRowsWritten() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, tm := range m.tables {
		total += tm.RowsWritten
	}
	return total
}

// GenerateReport renders a per-table summary for logs or the CLI
func (m *Metrics) GenerateReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	tables := make([]string, 0, len(m.tables))
	for table := range m.tables {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var sb strings.Builder
	sb.WriteString("Override activity:\n")
	for _, table := range tables {
		tm := m.tables[table]
		sb.WriteString(fmt.Sprintf("  %s: %d submit(s), %d row(s) written, %d failed",
			table, tm.Submits, tm.RowsWritten, tm.RowsFailed))
		if !tm.LastWrite.IsZero() {
			sb.WriteString(", last write " + tm.LastWrite.Format(time.RFC3339))
		}
		sb.WriteString("\n")
	}
	if len(tables) == 0 {
		sb.WriteString("  (none)\n")
	}
	return sb.String()
}
