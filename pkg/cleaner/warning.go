// pkg/cleaner/warning.go
package cleaner

import (
	"errors"
	"fmt"

	"github.com/retaildc/ingress/pkg/dataset"
)

// ErrMissingColumn is returned when a pass names a column the dataset does
// not have. This is a caller contract violation, not a data-quality defect,
// so it surfaces as an error instead of a warning.
var ErrMissingColumn = errors.New("required column missing")

// Warning records a single non-fatal data-quality event: a dropped row, an
// uncoerced column, an unparsable value. Passes return warnings alongside
// the cleaned dataset so callers can inspect what was skipped without
// parsing log output.
type Warning struct {
	Pass   string // pass that produced the warning
	Column string // column involved, empty when row-scoped across columns
	Row    int64  // row identifier, -1 when column-scoped
	Value  string // offending value as text
	Reason string // machine-readable reason, e.g. "null_sentinel"
}

func (w Warning) String() string {
	if w.Row >= 0 {
		return fmt.Sprintf("%s: row %d column %q value %q: %s",
			w.Pass, w.Row, w.Column, w.Value, w.Reason)
	}
	return fmt.Sprintf("%s: column %q: %s", w.Pass, w.Column, w.Reason)
}

// requireColumns verifies that every named column exists in the dataset.
func requireColumns(ds *dataset.Dataset, pass string, columns ...string) error {
	for _, col := range columns {
		if !ds.HasColumn(col) {
			return fmt.Errorf("%w: %q (pass %s)", ErrMissingColumn, col, pass)
		}
	}
	return nil
}

// toString renders a cell value as text. Nil renders as the empty string.
func toString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
