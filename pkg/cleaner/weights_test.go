// pkg/cleaner/weights_test.go
package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertProductWeight(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"100g", 0.1},
		{"2 x 200g", 0.4},
		{"12 x 85g", 1.02},
		{"1kg", 1.0},
		{"0.5kg", 0.5},
		{"3oz", 0.0850485},
		{"200ml", 0.2},
		{"77g .", 0.077},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ConvertProductWeight(tc.raw)
			require.True(t, ok)
			assert.InDelta(t, tc.want, got.(float64), 1e-9)
		})
	}
}

func TestConvertProductWeightUnrecognized(t *testing.T) {
	for _, raw := range []string{"garbage", "ZTDGUZVU", ""} {
		got, ok := ConvertProductWeight(raw)
		assert.False(t, ok, raw)
		assert.Equal(t, raw, got)
	}
}

func TestConvertProductWeights(t *testing.T) {
	ds := makeDataset(t,
		[]string{"weight"},
		map[string][]any{"weight": {"100g", "garbage", nil, "1.2kg"}})

	ds, warnings, err := ConvertProductWeights(ds, "weight")
	require.NoError(t, err)

	vals := column(t, ds, "weight")
	assert.InDelta(t, 0.1, vals[0].(float64), 1e-9)
	assert.Equal(t, "garbage", vals[1])
	assert.Nil(t, vals[2])
	assert.InDelta(t, 1.2, vals[3].(float64), 1e-9)

	require.Len(t, warnings, 1)
	assert.Equal(t, "unrecognized_weight_format", warnings[0].Reason)
	assert.Equal(t, "garbage", warnings[0].Value)
}
