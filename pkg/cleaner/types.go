// pkg/cleaner/types.go
package cleaner

import (
	"math"
	"sort"
	"time"

	"github.com/spf13/cast"

	"github.com/retaildc/ingress/pkg/dataset"
)

// ConvertDataTypes coerces each declared column to its semantic kind.
// Failures are isolated per column: a column whose values cannot all be
// coerced is left unconverted with a warning, and a declared column absent
// from the dataset is skipped with a warning. One malformed column never
// aborts cleaning of the rest. This is the one pass where a missing column
// is not a contract violation, because its whole contract is best-effort.
func ConvertDataTypes(ds *dataset.Dataset, kinds map[string]dataset.Kind) (*dataset.Dataset, []Warning, error) {
	const pass = "convert_data_types"

	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []Warning
	for _, name := range names {
		kind := kinds[name]

		if !ds.HasColumn(name) {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: name,
				Row:    -1,
				Reason: "column_not_found",
			})
			continue
		}

		vals, err := ds.Values(name)
		if err != nil {
			return nil, nil, err
		}

		converted := make([]any, len(vals))
		failed := false
		for pos, v := range vals {
			if v == nil {
				continue
			}
			cv, err := coerceValue(v, kind)
			if err != nil {
				warnings = append(warnings, Warning{
					Pass:   pass,
					Column: name,
					Row:    ds.RowID(pos),
					Value:  toString(v),
					Reason: "conversion_failed",
				})
				failed = true
				break
			}
			converted[pos] = cv
		}
		if failed {
			continue
		}

		for pos := range vals {
			if vals[pos] != nil {
				vals[pos] = converted[pos]
			}
		}
		if err := ds.SetKind(name, kind); err != nil {
			return nil, nil, err
		}
	}

	return ds, warnings, nil
}

// coerceValue converts a single cell to the target kind.
func coerceValue(v any, kind dataset.Kind) (any, error) {
	switch kind {
	case dataset.String, dataset.Category:
		return cast.ToStringE(v)
	case dataset.Int:
		return cast.ToInt64E(v)
	case dataset.Float:
		return cast.ToFloat64E(v)
	case dataset.Date, dataset.Timestamp:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return cast.ToTimeE(v)
	case dataset.Time:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return cast.ToTimeE(v)
	default:
		return v, nil
	}
}

// RoundColumn rounds a float column to the given number of decimal places.
// Used for the currency-precision guarantee on prices.
func RoundColumn(ds *dataset.Dataset, column string, places int) (*dataset.Dataset, []Warning, error) {
	const pass = "round_column"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	factor := 1.0
	for i := 0; i < places; i++ {
		factor *= 10
	}

	for pos, v := range vals {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		vals[pos] = math.Round(f*factor) / factor
	}
	return ds, nil, nil
}
