// pkg/cleaner/dates.go
package cleaner

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/retaildc/ingress/pkg/dataset"
)

// Strict layouts tried in priority order before falling back to the
// permissive parser. The upstream sources emit all three.
var strictDateLayouts = []string{
	"2006-01-02",
	"2006 January 2",
	"January 2006 2",
}

// parseDate parses a raw date string: strict layouts first, then a
// permissive fallback. The boolean is false when nothing matched.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range strictDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ConvertDates parses each named column into calendar dates. Values are
// tried against the strict layouts in priority order, then a permissive
// fallback parser; anything still unparsable becomes a missing date with a
// warning. Bad input never fails the batch. Time-of-day is discarded.
func ConvertDates(ds *dataset.Dataset, columns []string) (*dataset.Dataset, []Warning, error) {
	const pass = "convert_dates"

	if err := requireColumns(ds, pass, columns...); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, name := range columns {
		vals, err := ds.Values(name)
		if err != nil {
			return nil, nil, err
		}

		for pos, v := range vals {
			if v == nil {
				continue
			}
			if _, ok := v.(time.Time); ok {
				continue
			}

			t, ok := parseDate(toString(v))
			if !ok {
				warnings = append(warnings, Warning{
					Pass:   pass,
					Column: name,
					Row:    ds.RowID(pos),
					Value:  toString(v),
					Reason: "unparsable_date",
				})
				vals[pos] = nil
				continue
			}
			vals[pos] = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}

		if err := ds.SetKind(name, dataset.Date); err != nil {
			return nil, nil, err
		}
	}

	return ds, warnings, nil
}

// ConvertTimestampToTime reduces a timestamp column to its time-of-day
// component, parsed permissively. Unparsable values become missing with a
// warning.
func ConvertTimestampToTime(ds *dataset.Dataset, column string) (*dataset.Dataset, []Warning, error) {
	const pass = "convert_timestamp_to_time"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for pos, v := range vals {
		if v == nil {
			continue
		}

		var t time.Time
		if tv, ok := v.(time.Time); ok {
			t = tv
		} else {
			s := toString(v)
			parsed, err := time.Parse("15:04:05", s)
			if err != nil {
				parsed, err = dateparse.ParseAny(s)
			}
			if err != nil {
				warnings = append(warnings, Warning{
					Pass:   pass,
					Column: column,
					Row:    ds.RowID(pos),
					Value:  s,
					Reason: "unparsable_timestamp",
				})
				vals[pos] = nil
				continue
			}
			t = parsed
		}

		// Keep only the clock reading, anchored to the zero date.
		vals[pos] = time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}

	if err := ds.SetKind(column, dataset.Time); err != nil {
		return nil, nil, err
	}
	return ds, warnings, nil
}
