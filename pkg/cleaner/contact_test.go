// pkg/cleaner/contact_test.go
package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanEmailAddresses(t *testing.T) {
	ds := makeDataset(t,
		[]string{"email_address"},
		map[string][]any{"email_address": {
			"a@@example.com",
			"b@example.com",
			nil,
		}})

	ds, warnings, err := CleanEmailAddresses(ds)
	require.NoError(t, err)

	assert.Equal(t,
		[]any{"a@example.com", "b@example.com", nil},
		column(t, ds, "email_address"))
	require.Len(t, warnings, 1)
	assert.Equal(t, "a@@example.com", warnings[0].Value)
}

func TestCleanEmailAddressesIdempotent(t *testing.T) {
	ds := makeDataset(t,
		[]string{"email_address"},
		map[string][]any{"email_address": {"a@@example.com"}})

	ds, _, err := CleanEmailAddresses(ds)
	require.NoError(t, err)

	ds, warnings, err := CleanEmailAddresses(ds)
	require.NoError(t, err)
	assert.Equal(t, []any{"a@example.com"}, column(t, ds, "email_address"))
	assert.Empty(t, warnings)
}

func TestCleanPhoneNumbers(t *testing.T) {
	ds := makeDataset(t,
		[]string{"phone_number"},
		map[string][]any{"phone_number": {
			"+44 (0)117 496-0123",
			"+44 123x99",
			"001-123-456",
			nil,
		}})

	ds, _, err := CleanPhoneNumbers(ds)
	require.NoError(t, err)

	assert.Equal(t,
		[]any{"+441174960123", "+44123", "001123456", nil},
		column(t, ds, "phone_number"))

	exts := column(t, ds, "phone_ext")
	assert.Equal(t, []any{nil, "99", nil, nil}, exts)
}

func TestCleanPhoneNumbersOverwritesExistingExt(t *testing.T) {
	ds := makeDataset(t,
		[]string{"phone_number", "phone_ext"},
		map[string][]any{
			"phone_number": {"555x12", "666"},
			"phone_ext":    {nil, "old"},
		})

	ds, _, err := CleanPhoneNumbers(ds)
	require.NoError(t, err)

	assert.Equal(t, []any{"12", "old"}, column(t, ds, "phone_ext"))
}

func TestCleanAddresses(t *testing.T) {
	ds := makeDataset(t,
		[]string{"address"},
		map[string][]any{"address": {
			"12 high street\nlittle whinging\nab1 2cd",
			nil,
		}})

	ds, _, err := CleanAddresses(ds, DefaultAddressOptions())
	require.NoError(t, err)

	// Newlines flattened, each word title-cased, postal code restored to
	// upper case.
	assert.Equal(t,
		[]any{"12 High Street Little Whinging AB1 2CD", nil},
		column(t, ds, "address"))
}

func TestCleanAddressesStoreSeparator(t *testing.T) {
	ds := makeDataset(t,
		[]string{"address"},
		map[string][]any{"address": {"flat 1\noldtown plaza"}})

	ds, _, err := CleanAddresses(ds, AddressOptions{
		Column:             "address",
		NewlineReplacement: ", ",
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"Flat 1, OLDTOWN PLAZA"}, column(t, ds, "address"))
}

func TestCleanAddressesSingleToken(t *testing.T) {
	ds := makeDataset(t,
		[]string{"address"},
		map[string][]any{"address": {"plaza"}})

	ds, _, err := CleanAddresses(ds, DefaultAddressOptions())
	require.NoError(t, err)

	// Too short for the postal-code restore; title-casing still applies.
	assert.Equal(t, []any{"Plaza"}, column(t, ds, "address"))
}

func TestCleanAddressesMissingColumn(t *testing.T) {
	ds := makeDataset(t, []string{"a"}, map[string][]any{"a": {"1"}})

	_, _, err := CleanAddresses(ds, DefaultAddressOptions())
	require.ErrorIs(t, err, ErrMissingColumn)
}
