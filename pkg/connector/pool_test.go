// pkg/connector/pool_test.go
package connector

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolStatsFrom(t *testing.T) {
	stats := poolStatsFrom(sql.DBStats{
		MaxOpenConnections: 25,
		OpenConnections:    3,
		InUse:              2,
		Idle:               1,
	})

	assert.Equal(t, PoolStats{
		Open:    3,
		InUse:   2,
		Idle:    1,
		MaxOpen: 25,
	}, stats)
}
