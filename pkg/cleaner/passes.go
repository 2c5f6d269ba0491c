// pkg/cleaner/passes.go
package cleaner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/retaildc/ingress/pkg/dataset"
)

// NullSentinel is the literal placeholder upstream systems use for missing
// data. It is a string value, not a true absent-value marker.
const NullSentinel = "NULL"

// RemoveNullValues drops every row in which any column holds the "NULL"
// sentinel string. The resulting index is a subset of the input's.
func RemoveNullValues(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	const pass = "remove_null_values"

	columns := ds.Columns()
	values := make(map[string][]any, len(columns))
	for _, name := range columns {
		vals, err := ds.Values(name)
		if err != nil {
			return nil, nil, err
		}
		values[name] = vals
	}

	var warnings []Warning
	ds.Retain(func(pos int) bool {
		for _, name := range columns {
			if s, ok := values[name][pos].(string); ok && s == NullSentinel {
				warnings = append(warnings, Warning{
					Pass:   pass,
					Column: name,
					Row:    ds.RowID(pos),
					Value:  s,
					Reason: "null_sentinel",
				})
				return false
			}
		}
		return true
	})

	return ds, warnings, nil
}

// RemoveExactDuplicates drops every row that is a full duplicate of another
// row, removing all copies rather than keeping one survivor.
func RemoveExactDuplicates(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	const pass = "remove_exact_duplicates"

	columns := ds.Columns()
	fingerprints := make([]string, ds.Len())
	counts := make(map[string]int, ds.Len())

	for pos := 0; pos < ds.Len(); pos++ {
		var b strings.Builder
		for _, name := range columns {
			v, err := ds.Cell(name, pos)
			if err != nil {
				return nil, nil, err
			}
			b.WriteString(toString(v))
			b.WriteByte('\x1f')
		}
		fingerprints[pos] = b.String()
		counts[fingerprints[pos]]++
	}

	var warnings []Warning
	ds.Retain(func(pos int) bool {
		if counts[fingerprints[pos]] > 1 {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Row:    ds.RowID(pos),
				Reason: "duplicate_row",
			})
			return false
		}
		return true
	})

	return ds, warnings, nil
}

// RemoveUniqueColumnDuplicates drops, for each named column in order, every
// row participating in a duplicate value in that column. All copies are
// removed: a repeated email, phone number or UUID marks every row carrying
// it as corrupted. Columns are processed sequentially, so rows removed by
// an earlier column are not considered for later ones.
func RemoveUniqueColumnDuplicates(ds *dataset.Dataset, uniqueColumns []string) (*dataset.Dataset, []Warning, error) {
	const pass = "remove_unique_column_duplicates"

	if err := requireColumns(ds, pass, uniqueColumns...); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, name := range uniqueColumns {
		vals, err := ds.Values(name)
		if err != nil {
			return nil, nil, err
		}

		counts := make(map[string]int, len(vals))
		for _, v := range vals {
			counts[toString(v)]++
		}

		ds.Retain(func(pos int) bool {
			v := toString(vals[pos])
			if counts[v] > 1 {
				warnings = append(warnings, Warning{
					Pass:   pass,
					Column: name,
					Row:    ds.RowID(pos),
					Value:  v,
					Reason: "duplicate_value",
				})
				return false
			}
			return true
		})
	}

	return ds, warnings, nil
}

// CountryOptions configures CleanCountryData. There are no ambient
// defaults; recipes pass DefaultCountryOptions() explicitly.
type CountryOptions struct {
	Column      string
	Valid       []string
	Corrections map[string]string
}

// DefaultCountryOptions returns the country configuration shared by the
// user and store recipes: the three markets the business operates in, plus
// the one known upstream typo.
func DefaultCountryOptions() CountryOptions {
	return CountryOptions{
		Column: "country_code",
		Valid:  []string{"GB", "DE", "US"},
		Corrections: map[string]string{
			countryCodeTypo: "GB",
		},
	}
}

// CleanCountryData coerces the country-code column to a categorical domain,
// applies the fixed typo corrections, and drops every row whose corrected
// code is not in the valid set. No other column is touched.
func CleanCountryData(ds *dataset.Dataset, opts CountryOptions) (*dataset.Dataset, []Warning, error) {
	const pass = "clean_country_data"

	if err := requireColumns(ds, pass, opts.Column); err != nil {
		return nil, nil, err
	}

	vals, err := ds.Values(opts.Column)
	if err != nil {
		return nil, nil, err
	}
	if err := ds.SetKind(opts.Column, dataset.Category); err != nil {
		return nil, nil, err
	}

	valid := make(map[string]bool, len(opts.Valid))
	for _, code := range opts.Valid {
		valid[code] = true
	}

	for pos, v := range vals {
		if corrected, ok := opts.Corrections[toString(v)]; ok {
			vals[pos] = corrected
		}
	}

	var warnings []Warning
	ds.Retain(func(pos int) bool {
		code := toString(vals[pos])
		if !valid[code] {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: opts.Column,
				Row:    ds.RowID(pos),
				Value:  code,
				Reason: "invalid_country_code",
			})
			return false
		}
		return true
	})

	return ds, warnings, nil
}

// KeepRowsInSet drops every row whose value in the named column falls
// outside the valid enumeration.
func KeepRowsInSet(ds *dataset.Dataset, column string, valid []string) (*dataset.Dataset, []Warning, error) {
	const pass = "keep_rows_in_set"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	validSet := make(map[string]bool, len(valid))
	for _, v := range valid {
		validSet[v] = true
	}

	var warnings []Warning
	ds.Retain(func(pos int) bool {
		v := toString(vals[pos])
		if !validSet[v] {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: column,
				Row:    ds.RowID(pos),
				Value:  v,
				Reason: "invalid_enum_value",
			})
			return false
		}
		return true
	})

	return ds, warnings, nil
}

// DropMissing removes every row holding a nil cell in any column.
func DropMissing(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	const pass = "drop_missing"

	columns := ds.Columns()
	values := make(map[string][]any, len(columns))
	for _, name := range columns {
		vals, err := ds.Values(name)
		if err != nil {
			return nil, nil, err
		}
		values[name] = vals
	}

	var warnings []Warning
	ds.Retain(func(pos int) bool {
		for _, name := range columns {
			if values[name][pos] == nil {
				warnings = append(warnings, Warning{
					Pass:   pass,
					Column: name,
					Row:    ds.RowID(pos),
					Reason: "missing_value",
				})
				return false
			}
		}
		return true
	})

	return ds, warnings, nil
}

// ReplaceInColumn replaces every occurrence of a literal substring in a
// string column.
func ReplaceInColumn(ds *dataset.Dataset, column, old, replacement string) (*dataset.Dataset, []Warning, error) {
	const pass = "replace_in_column"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	for pos, v := range vals {
		if v == nil {
			continue
		}
		vals[pos] = strings.ReplaceAll(toString(v), old, replacement)
	}
	return ds, nil, nil
}

// CorrectCellValue rewrites cells exactly equal to a known-bad literal.
// Used for fixed, data-specific typo patches rather than fuzzy matching.
func CorrectCellValue(ds *dataset.Dataset, column, bad, good string) (*dataset.Dataset, []Warning, error) {
	const pass = "correct_cell_value"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for pos, v := range vals {
		if toString(v) == bad {
			vals[pos] = good
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: column,
				Row:    ds.RowID(pos),
				Value:  bad,
				Reason: "corrected_known_typo",
			})
		}
	}
	return ds, warnings, nil
}

// StripPatternFromColumn removes every match of the pattern from each cell
// of a string column.
func StripPatternFromColumn(ds *dataset.Dataset, column string, pattern *regexp.Regexp) (*dataset.Dataset, []Warning, error) {
	const pass = "strip_pattern_from_column"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	for pos, v := range vals {
		if v == nil {
			continue
		}
		vals[pos] = pattern.ReplaceAllString(toString(v), "")
	}
	return ds, nil, nil
}

// DropRowsMatching removes every row whose cell in the named column matches
// the pattern. Nil cells never match and are kept.
func DropRowsMatching(ds *dataset.Dataset, column string, pattern *regexp.Regexp) (*dataset.Dataset, []Warning, error) {
	const pass = "drop_rows_matching"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	ds.Retain(func(pos int) bool {
		if vals[pos] == nil {
			return true
		}
		s := toString(vals[pos])
		if pattern.MatchString(s) {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: column,
				Row:    ds.RowID(pos),
				Value:  s,
				Reason: "pattern_match",
			})
			return false
		}
		return true
	})

	return ds, warnings, nil
}

// CoerceSentinelToMissing replaces cells holding a literal sentinel such as
// "N/A" with a true missing-value marker, so later numeric coercion sees an
// absent value instead of an unparsable string.
func CoerceSentinelToMissing(ds *dataset.Dataset, column, sentinel string) (*dataset.Dataset, []Warning, error) {
	const pass = "coerce_sentinel_to_missing"

	if err := requireColumns(ds, pass, column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(column)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for pos, v := range vals {
		if toString(v) == sentinel && v != nil {
			vals[pos] = nil
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: column,
				Row:    ds.RowID(pos),
				Value:  sentinel,
				Reason: "sentinel_to_missing",
			})
		}
	}
	return ds, warnings, nil
}

// ValidateUUIDColumn audits a column for RFC 4122 format without dropping
// or rewriting rows; malformed identifiers surface as warnings only.
func ValidateUUIDColumn(ds *dataset.Dataset, column string) (*dataset.Dataset, []Warning, error) {
	const pass = "validate_uuid_column"

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
		s := toString(v)
		if _, err := uuid.Parse(s); err != nil {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: column,
				Row:    ds.RowID(pos),
				Value:  s,
				Reason: "invalid_uuid_format",
			})
		}
	}
	return ds, warnings, nil
}
