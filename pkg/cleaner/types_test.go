// pkg/cleaner/types_test.go
package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retaildc/ingress/pkg/dataset"
)

func TestConvertDataTypes(t *testing.T) {
	ds := makeDataset(t,
		[]string{"staff_numbers", "longitude"},
		map[string][]any{
			"staff_numbers": {"30", "97", nil},
			"longitude":     {"1.5", "-0.12", nil},
		})

	ds, warnings, err := ConvertDataTypes(ds, map[string]dataset.Kind{
		"staff_numbers": dataset.Int,
		"longitude":     dataset.Float,
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []any{int64(30), int64(97), nil}, column(t, ds, "staff_numbers"))
	assert.Equal(t, []any{1.5, -0.12, nil}, column(t, ds, "longitude"))

	kind, err := ds.Kind("staff_numbers")
	require.NoError(t, err)
	assert.Equal(t, dataset.Int, kind)
}

func TestConvertDataTypesIsolatesFailedColumn(t *testing.T) {
	ds := makeDataset(t,
		[]string{"staff_numbers", "longitude"},
		map[string][]any{
			"staff_numbers": {"30", "not-a-number"},
			"longitude":     {"1.5", "2.5"},
		})

	ds, warnings, err := ConvertDataTypes(ds, map[string]dataset.Kind{
		"staff_numbers": dataset.Int,
		"longitude":     dataset.Float,
	})
	require.NoError(t, err)

	// The failed column keeps its original values and kind; the clean
	// column still converts.
	assert.Equal(t, []any{"30", "not-a-number"}, column(t, ds, "staff_numbers"))
	assert.Equal(t, []any{1.5, 2.5}, column(t, ds, "longitude"))

	kind, err := ds.Kind("staff_numbers")
	require.NoError(t, err)
	assert.Equal(t, dataset.String, kind)

	require.Len(t, warnings, 1)
	assert.Equal(t, "conversion_failed", warnings[0].Reason)
	assert.Equal(t, "staff_numbers", warnings[0].Column)
}

func TestConvertDataTypesMissingColumnIsWarning(t *testing.T) {
	ds := makeDataset(t, []string{"a"}, map[string][]any{"a": {"1"}})

	ds, warnings, err := ConvertDataTypes(ds, map[string]dataset.Kind{
		"a":       dataset.Int,
		"missing": dataset.Float,
	})
	require.NoError(t, err)

	assert.Equal(t, []any{int64(1)}, column(t, ds, "a"))
	require.Len(t, warnings, 1)
	assert.Equal(t, "column_not_found", warnings[0].Reason)
	assert.Equal(t, "missing", warnings[0].Column)
	assert.Equal(t, int64(-1), warnings[0].Row)
}

func TestConvertDataTypesIdempotent(t *testing.T) {
	kinds := map[string]dataset.Kind{"a": dataset.Int}
	ds := makeDataset(t, []string{"a"}, map[string][]any{"a": {"42"}})

	ds, _, err := ConvertDataTypes(ds, kinds)
	require.NoError(t, err)

	ds, warnings, err := ConvertDataTypes(ds, kinds)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []any{int64(42)}, column(t, ds, "a"))
}

func TestRoundColumn(t *testing.T) {
	ds := makeDataset(t,
		[]string{"product_price"},
		map[string][]any{"product_price": {2.455, 1.234, nil, "skip"}})

	ds, _, err := RoundColumn(ds, "product_price", 2)
	require.NoError(t, err)

	vals := column(t, ds, "product_price")
	assert.InDelta(t, 2.46, vals[0].(float64), 1e-9)
	assert.InDelta(t, 1.23, vals[1].(float64), 1e-9)
	assert.Nil(t, vals[2])
	assert.Equal(t, "skip", vals[3])
}
