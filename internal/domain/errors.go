package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSourceNotFound signals that the input file is missing. The caller
// decides on a fallback (e.g. prompting for an alternate source).
var ErrSourceNotFound = errors.New("data source not found")

// SchemaError reports required columns absent from the source header.
// It is not recoverable; the load aborts.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// RowError is a per-row parse failure. Under the skip-invalid-rows policy the
// load succeeds and collects these as diagnostics; only the offending row is
// excluded from the table.
type RowError struct {
	Line   int // 1-based, counting the header as line 1
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: column %q: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
