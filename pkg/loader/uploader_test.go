// pkg/loader/uploader_test.go
package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/retaildc/ingress/pkg/dataset"
)

func TestSQLType(t *testing.T) {
	cases := map[dataset.Kind]string{
		dataset.String:    "TEXT",
		dataset.Category:  "TEXT",
		dataset.Int:       "BIGINT",
		dataset.Float:     "DOUBLE PRECISION",
		dataset.Date:      "DATE",
		dataset.Time:      "TIME",
		dataset.Timestamp: "TIMESTAMP WITH TIME ZONE",
	}
	for kind, want := range cases {
		assert.Equal(t, want, sqlType(kind), kind.String())
	}
}

func TestSQLValueFormatsTimeOfDay(t *testing.T) {
	clock := time.Date(0, time.January, 1, 22, 0, 5, 0, time.UTC)
	assert.Equal(t, "22:00:05", sqlValue(clock, dataset.Time))

	// Non-time kinds pass through untouched, including time.Time dates.
	date := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, date, sqlValue(date, dataset.Date))
	assert.Equal(t, int64(7), sqlValue(int64(7), dataset.Int))
	assert.Nil(t, sqlValue(nil, dataset.Time))
}

func TestSQLValueRendersMixedTextColumn(t *testing.T) {
	// A column that failed best-effort float coercion keeps already
	// converted float64 cells next to an unparsable string, declared as
	// TEXT. Every cell must reach the driver as text.
	assert.Equal(t, "0.4", sqlValue(0.4, dataset.String))
	assert.Equal(t, "garbage", sqlValue("garbage", dataset.String))
	assert.Equal(t, "7", sqlValue(int64(7), dataset.Category))
	assert.Nil(t, sqlValue(nil, dataset.String))

	// Properly typed numeric columns are untouched.
	assert.Equal(t, 0.4, sqlValue(0.4, dataset.Float))
}
