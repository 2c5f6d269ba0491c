// pkg/cleaner/recipes.go
package cleaner

import (
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/retaildc/ingress/pkg/dataset"
)

// Fixed literal corrections for known upstream data defects. These are
// data-specific patches, not general fuzzy matching.
const (
	// countryCodeTypo is a recurring mistyped United Kingdom code.
	countryCodeTypo = "GGB"

	// continentTypo is a doubled-letter artifact in store continents
	// ("eeEurope", "eeAmerica").
	continentTypo = "ee"

	// removedMisspelling is the misspelled product availability status.
	removedMisspelling = "Still_avaliable"
	removedStillAvail  = "Still_available"
	removedGone        = "Removed"
)

// Valid enumerations for domain-filtered columns.
var (
	validRemovedStatuses = []string{removedStillAvail, removedGone}
	validTimePeriods     = []string{"Evening", "Midday", "Morning", "Late_Hours"}
)

var (
	letterPattern  = regexp.MustCompile(`[a-zA-Z]`)
	currencySymbol = "£"
	questionMark   = "?"
	notAvailable   = "N/A"
)

// Cleaner runs the per-dataset cleaning recipes. Each recipe is a fixed,
// non-branching sequence of passes; the dataset is threaded linearly
// through them and the warnings from every pass are accumulated. Recipes
// never fail on malformed data, only on structurally missing columns.
type Cleaner struct {
	logger    *zap.Logger
	countries CountryOptions
}

// NewCleaner creates a Cleaner with the default country configuration.
func NewCleaner(logger *zap.Logger) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Cleaner{
		logger:    logger.Named("cleaner"),
		countries: DefaultCountryOptions(),
	}, nil
}

// pass is one step in a recipe.
type pass func(*dataset.Dataset) (*dataset.Dataset, []Warning, error)

// run threads the dataset through the passes, accumulating warnings.
func (c *Cleaner) run(name string, ds *dataset.Dataset, passes []pass) (*dataset.Dataset, []Warning, error) {
	var all []Warning
	rowsIn := ds.Len()

	for _, p := range passes {
		var warnings []Warning
		var err error
		ds, warnings, err = p(ds)
		if err != nil {
			return nil, all, err
		}
		all = append(all, warnings...)
	}

	c.logger.Info("Recipe complete",
		zap.String("recipe", name),
		zap.Int("rows_in", rowsIn),
		zap.Int("rows_out", ds.Len()),
		zap.Int("warnings", len(all)))

	return ds, all, nil
}

// userColumnKinds declares the text columns coerced before any string
// operation runs, so later regex passes see consistently-typed cells.
var userColumnKinds = map[string]dataset.Kind{
	"first_name":    dataset.String,
	"last_name":     dataset.String,
	"company":       dataset.String,
	"email_address": dataset.String,
	"address":       dataset.String,
	"country":       dataset.Category,
	"country_code":  dataset.Category,
	"phone_number":  dataset.String,
	"user_uuid":     dataset.String,
}

// CleanUserData cleans the users dataset: coerce types, drop null-sentinel
// rows, drop rows sharing an email, phone number or UUID, validate country
// codes, repair emails, parse dates, normalize addresses and phone numbers.
func (c *Cleaner) CleanUserData(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	return c.run("users", ds, []pass{
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDataTypes(ds, userColumnKinds)
		},
		RemoveNullValues,
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return RemoveUniqueColumnDuplicates(ds, []string{"email_address", "phone_number", "user_uuid"})
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ValidateUUIDColumn(ds, "user_uuid")
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return CleanCountryData(ds, c.countries)
		},
		CleanEmailAddresses,
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDates(ds, []string{"date_of_birth", "join_date"})
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return CleanAddresses(ds, DefaultAddressOptions())
		},
		CleanPhoneNumbers,
	})
}

// CleanCardData cleans the card-details dataset. Integer coercion of
// card_number must run last, after every non-numeric character has been
// removed.
func (c *Cleaner) CleanCardData(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	return c.run("cards", ds, []pass{
		RemoveExactDuplicates,
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ReplaceInColumn(ds, "card_number", questionMark, "")
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return DropRowsMatching(ds, "card_number", letterPattern)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDates(ds, []string{"date_payment_confirmed"})
		},
		DropMissing,
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDataTypes(ds, map[string]dataset.Kind{"card_number": dataset.Int})
		},
	})
}

// storeColumnKinds declares the numeric store columns. The N/A sentinel in
// longitude must be coerced to missing before this map is applied.
var storeColumnKinds = map[string]dataset.Kind{
	"longitude":     dataset.Float,
	"latitude":      dataset.Float,
	"staff_numbers": dataset.Int,
}

// CleanStoreData cleans the store-details dataset.
func (c *Cleaner) CleanStoreData(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	return c.run("stores", ds, []pass{
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			// The feed carries a second, garbled latitude column.
			if err := ds.DropColumn("lat"); err != nil {
				return nil, nil, err
			}
			return ds, nil, nil
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return CleanCountryData(ds, c.countries)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return CleanAddresses(ds, AddressOptions{
				Column:             addressColumn,
				NewlineReplacement: ", ",
			})
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ReplaceInColumn(ds, "continent", continentTypo, "")
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return CoerceSentinelToMissing(ds, "longitude", notAvailable)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDates(ds, []string{"opening_date"})
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return StripPatternFromColumn(ds, "staff_numbers", letterPattern)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDataTypes(ds, storeColumnKinds)
		},
	})
}

// productColumnKinds declares the numeric product columns.
var productColumnKinds = map[string]dataset.Kind{
	"product_price": dataset.Float,
	"weight_in_kg":  dataset.Float,
}

// CleanProductsData cleans the products dataset.
func (c *Cleaner) CleanProductsData(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	return c.run("products", ds, []pass{
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			// CSV export leaves the positional index unnamed.
			if err := ds.RenameColumn("Unnamed: 0", "index"); err != nil {
				return nil, nil, err
			}
			return ds, nil, nil
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return CorrectCellValue(ds, "removed", removedMisspelling, removedStillAvail)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return KeepRowsInSet(ds, "removed", validRemovedStatuses)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ReplaceInColumn(ds, "product_price", currencySymbol, "")
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertProductWeights(ds, "weight")
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			if err := ds.RenameColumn("weight", "weight_in_kg"); err != nil {
				return nil, nil, err
			}
			return ds, nil, nil
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDates(ds, []string{"date_added"})
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDataTypes(ds, productColumnKinds)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return RoundColumn(ds, "product_price", 2)
		},
	})
}

// CleanOrdersData cleans the orders dataset: the PII name columns and a
// residual join artifact are dropped and the index column is renamed. No
// rows are filtered.
func (c *Cleaner) CleanOrdersData(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	return c.run("orders", ds, []pass{
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			for _, col := range []string{"first_name", "last_name", "1"} {
				if err := ds.DropColumn(col); err != nil {
					return nil, nil, err
				}
			}
			return ds, nil, nil
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			if err := ds.RenameColumn("level_0", "index"); err != nil {
				return nil, nil, err
			}
			return ds, nil, nil
		},
	})
}

// dateEventColumnKinds declares the narrow numeric and categorical
// date-event columns.
var dateEventColumnKinds = map[string]dataset.Kind{
	"time_period": dataset.Category,
	"month":       dataset.Int,
	"year":        dataset.Int,
	"day":         dataset.Int,
}

// CleanDateEventsData cleans the date-events dataset.
func (c *Cleaner) CleanDateEventsData(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	return c.run("date_events", ds, []pass{
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return KeepRowsInSet(ds, "time_period", validTimePeriods)
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertTimestampToTime(ds, "timestamp")
		},
		func(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
			return ConvertDataTypes(ds, dateEventColumnKinds)
		},
	})
}
