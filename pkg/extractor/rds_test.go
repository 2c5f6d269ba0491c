// pkg/extractor/rds_test.go
package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDatasetConsumesIndexColumn(t *testing.T) {
	columns := []string{"index", "name"}
	values := map[string][]any{
		"index": {int64(5), int64(9)},
		"name":  {"ann", "bob"},
	}

	ds, err := buildDataset(columns, values, 2)
	require.NoError(t, err)

	assert.Equal(t, []int64{5, 9}, ds.Index())
	assert.False(t, ds.HasColumn("index"))

	names, err := ds.Values("name")
	require.NoError(t, err)
	assert.Equal(t, []any{"ann", "bob"}, names)
}

func TestBuildDatasetPositionalFallback(t *testing.T) {
	// A non-integer index column is kept as data and rows are numbered
	// positionally.
	columns := []string{"index", "name"}
	values := map[string][]any{
		"index": {"a", "b"},
		"name":  {"ann", "bob"},
	}

	ds, err := buildDataset(columns, values, 2)
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 1}, ds.Index())
	assert.True(t, ds.HasColumn("index"))
}

func TestNormalizeDBValue(t *testing.T) {
	assert.Equal(t, "text", normalizeDBValue([]byte("text")))
	assert.Equal(t, int64(7), normalizeDBValue(int64(7)))
	assert.Nil(t, normalizeDBValue(nil))
}

func TestToInt64(t *testing.T) {
	for _, v := range []any{int64(3), int32(3), int(3)} {
		got, ok := toInt64(v)
		assert.True(t, ok)
		assert.Equal(t, int64(3), got)
	}

	_, ok := toInt64("3")
	assert.False(t, ok)
}
