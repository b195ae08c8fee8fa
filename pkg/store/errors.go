// pkg/store/errors.go
package store

import "fmt"

// WriteStep identifies which half of an override write failed
type WriteStep string

const (
	// StepUpdate is the point update of the source table
	StepUpdate WriteStep = "update"
	// StepInsert is the append into the target table
	StepInsert WriteStep = "insert"
)

// ReadError wraps a table read failure. Callers receive it alongside a
// nil row set, keeping "read failed" distinguishable from "zero rows".
type ReadError struct {
	Table string
	Err   error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read table %s: %v", e.Table, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed override write for a single row. Partial
// completion (source updated but append failed, or vice versa) is an
// explicit per-row error, never swallowed; later rows still proceed.
type WriteError struct {
	Table string
	Step  WriteStep
	Key   map[string]interface{}
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("override %s failed on %s (key %v): %v", e.Step, e.Table, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
