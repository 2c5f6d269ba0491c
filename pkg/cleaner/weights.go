// pkg/cleaner/weights.go
package cleaner

import (
	"strconv"
	"strings"

	"github.com/retaildc/ingress/pkg/dataset"
)

// ouncesToKilograms converts avoirdupois ounces to kilograms.
const ouncesToKilograms = 0.0283495

// ConvertProductWeight normalizes a raw product-weight value to kilograms.
// The raw value is stringified and classified by suffix/pattern, first
// match wins:
//
//  1. multipack "<n>g x <k>": both factors multiplied, grams to kg
//  2. trailing stray period from upstream scraping: artifact stripped,
//     remainder treated as grams
//  3. "kg" suffix: already kilograms
//  4. "g" suffix: grams to kg
//  5. "ml" suffix: milliliters to kg assuming density of water
//  6. "oz" suffix: ounces to kg
//
// Anything else is returned unchanged with ok=false; the cell keeps its
// unparsed value and downstream type coercion deals with it.
func ConvertProductWeight(raw any) (any, bool) {
	s := strings.TrimSpace(toString(raw))

	switch {
	case strings.Contains(s, "x"):
		stripped := strings.ReplaceAll(s, "g", "")
		factors := strings.Split(stripped, " x ")
		if len(factors) == 2 {
			f0, err0 := strconv.ParseFloat(strings.TrimSpace(factors[0]), 64)
			f1, err1 := strconv.ParseFloat(strings.TrimSpace(factors[1]), 64)
			if err0 == nil && err1 == nil {
				return f0 * f1 / 1000, true
			}
		}
	case strings.HasSuffix(s, "."):
		stripped := strings.ReplaceAll(s, "g .", "")
		if f, err := strconv.ParseFloat(strings.TrimSpace(stripped), 64); err == nil {
			return f / 1000, true
		}
	case strings.HasSuffix(s, "kg"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "kg"), 64); err == nil {
			return f, true
		}
	case strings.HasSuffix(s, "g"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "g"), 64); err == nil {
			return f / 1000, true
		}
	case strings.HasSuffix(s, "ml"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "ml"), 64); err == nil {
			return f / 1000, true
		}
	case strings.HasSuffix(s, "oz"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "oz"), 64); err == nil {
			return f * ouncesToKilograms, true
		}
	}

	return raw, false
}

// ConvertProductWeights applies ConvertProductWeight to every cell of the
// named column. Unparsable cells keep their original value and surface as
// warnings; the later float coercion will report them again per its own
// isolation policy.
func ConvertProductWeights(ds *dataset.Dataset, column string) (*dataset.Dataset, []Warning, error) {
	const pass = "convert_product_weights"

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
		converted, ok := ConvertProductWeight(v)
		if !ok {
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: column,
				Row:    ds.RowID(pos),
				Value:  toString(v),
				Reason: "unrecognized_weight_format",
			})
			continue
		}
		vals[pos] = converted
	}

	return ds, warnings, nil
}
