// pkg/extractor/pdf_test.go
package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCardRow(t *testing.T) {
	record, ok := parseCardRow([]string{
		"30060773296197", "09/26", "Diners", "Club", "/", "Carte", "Blanche", "2015-11-25",
	})
	require.True(t, ok)

	assert.Equal(t, "30060773296197", record["card_number"])
	assert.Equal(t, "09/26", record["expiry_date"])
	assert.Equal(t, "Diners Club / Carte Blanche", record["card_provider"])
	assert.Equal(t, "2015-11-25", record["date_payment_confirmed"])
}

func TestParseCardRowSkipsHeader(t *testing.T) {
	_, ok := parseCardRow([]string{
		"card_number", "expiry_date", "card_provider", "date_payment_confirmed",
	})
	assert.False(t, ok)
}

func TestParseCardRowSkipsShortRows(t *testing.T) {
	_, ok := parseCardRow([]string{"349624180933183", "10/23"})
	assert.False(t, ok)
}
