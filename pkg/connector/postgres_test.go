// pkg/connector/postgres_test.go
package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifiers(t *testing.T) {
	quoted := quoteIdentifiers([]string{"index", "store_code", `odd"name`})
	assert.Equal(t, []string{`"index"`, `"store_code"`, `"odd""name"`}, quoted)
}
