// pkg/workflow/report.go
package workflow

import (
	"fmt"
	"time"
)

// RowResult is the outcome of one attempted override write
type RowResult struct {
	RowIndex int
	Key      map[string]interface{}
	NewValue interface{}
	Err      error
}

// Succeeded reports whether the row's write completed both steps
func (r RowResult) Succeeded() bool {
	return r.Err == nil
}

// Report aggregates the outcome of one submit: per-row results plus
// counts presented back to the caller.
type Report struct {
	SessionID   string
	Module      int
	SourceTable string
	TargetTable string
	NoChanges   bool
	Rows        []RowResult
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// NewReport initializes a report for a submit batch
func NewReport(sessionID string, module int, sourceTable, targetTable string) *Report {
	return &Report{
		SessionID:   sessionID,
		Module:      module,
		SourceTable: sourceTable,
		TargetTable: targetTable,
		StartTime:   time.Now(),
		Rows:        make([]RowResult, 0),
	}
}

// AddRowResult records the outcome of one row
func (r *Report) AddRowResult(result RowResult) {
	r.Rows = append(r.Rows, result)
}

// Complete marks the batch finished and fixes its duration
func (r *Report) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// Changed returns the number of rows the detector flagged
func (r *Report) Changed() int {
	return len(r.Rows)
}

// Succeeded returns the number of rows written completely
func (r *Report) Succeeded() int {
	count := 0
	for _, row := range r.Rows {
		if row.Succeeded() {
			count++
		}
	}
	return count
}

// Failed returns the number of rows that reported a write error
func (r *Report) Failed() int {
	return r.Changed() - r.Succeeded()
}

// Summary renders the aggregate outcome as display text
func (r *Report) Summary() string {
	if r.NoChanges {
		return fmt.Sprintf("No changes detected in %s", r.SourceTable)
	}
	return fmt.Sprintf("%d row(s) changed in %s: %d succeeded, %d failed",
		r.Changed(), r.SourceTable, r.Succeeded(), r.Failed())
}
