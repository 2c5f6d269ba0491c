// pkg/cleaner/contact.go
package cleaner

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/retaildc/ingress/pkg/dataset"
)

const (
	emailColumn    = "email_address"
	phoneColumn    = "phone_number"
	phoneExtColumn = "phone_ext"
	addressColumn  = "address"
)

// phoneKeepPattern matches every character stripped from phone numbers:
// anything that is not alphanumeric or '+'.
var phoneKeepPattern = regexp.MustCompile(`[^a-zA-Z0-9+]`)

// CleanEmailAddresses collapses the doubled-at defect ("a@@b.com") to a
// single '@'. Addresses missing an '@' entirely are not rejected; the pass
// only repairs the one known upstream artifact.
func CleanEmailAddresses(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	const pass = "clean_email_addresses"

	if err := requireColumns(ds, pass, emailColumn); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(emailColumn)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for pos, v := range vals {
		if v == nil {
			continue
		}
		s := toString(v)
		if strings.Contains(s, "@@") {
			vals[pos] = strings.ReplaceAll(s, "@@", "@")
			warnings = append(warnings, Warning{
				Pass:   pass,
				Column: emailColumn,
				Row:    ds.RowID(pos),
				Value:  s,
				Reason: "doubled_at_sign",
			})
		}
	}
	return ds, warnings, nil
}

// CleanPhoneNumbers normalizes the phone_number column in three steps:
// split off any trailing extension at the first literal 'x' into a
// phone_ext column, remove the bracketed trunk zero "(0)", then strip every
// character that is not alphanumeric or '+'. The extension split must run
// first or the 'x' delimiter is destroyed by the character strip.
func CleanPhoneNumbers(ds *dataset.Dataset) (*dataset.Dataset, []Warning, error) {
	const pass = "clean_phone_numbers"

	if err := requireColumns(ds, pass, phoneColumn); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(phoneColumn)
	if err != nil {
		return nil, nil, err
	}

	exts := make([]any, len(vals))
	for pos, v := range vals {
		if v == nil {
			continue
		}
		s := toString(v)

		if i := strings.Index(s, "x"); i >= 0 {
			exts[pos] = s[i+1:]
			s = s[:i]
		}

		s = strings.ReplaceAll(s, "(0)", "")
		vals[pos] = phoneKeepPattern.ReplaceAllString(s, "")
	}

	if ds.HasColumn(phoneExtColumn) {
		extVals, err := ds.Values(phoneExtColumn)
		if err != nil {
			return nil, nil, err
		}
		for pos, ext := range exts {
			if ext != nil {
				extVals[pos] = ext
			}
		}
	} else if err := ds.AddColumn(phoneExtColumn, dataset.String, exts); err != nil {
		return nil, nil, err
	}

	return ds, nil, nil
}

// AddressOptions configures CleanAddresses. The newline separator differs
// between the user and store recipes because the raw feeds format embedded
// line breaks differently.
type AddressOptions struct {
	Column             string
	NewlineReplacement string
}

// DefaultAddressOptions returns the user-recipe address configuration.
func DefaultAddressOptions() AddressOptions {
	return AddressOptions{
		Column:             addressColumn,
		NewlineReplacement: " ",
	}
}

var addressTitleCaser = cases.Title(language.English)

// CleanAddresses flattens embedded newlines, title-cases each word, then
// re-upper-cases the final two whitespace-delimited tokens to restore
// postal and city codes clobbered by title-casing. Addresses with fewer
// than two tokens skip the re-uppercasing step.
func CleanAddresses(ds *dataset.Dataset, opts AddressOptions) (*dataset.Dataset, []Warning, error) {
	const pass = "clean_addresses"

	if err := requireColumns(ds, pass, opts.Column); err != nil {
		return nil, nil, err
	}
	vals, err := ds.Values(opts.Column)
	if err != nil {
		return nil, nil, err
	}

	for pos, v := range vals {
		if v == nil {
			continue
		}
		s := strings.ReplaceAll(toString(v), "\n", opts.NewlineReplacement)
		s = addressTitleCaser.String(s)

		fields := strings.Fields(s)
		if len(fields) >= 2 {
			for i := len(fields) - 2; i < len(fields); i++ {
				fields[i] = strings.ToUpper(fields[i])
			}
			s = strings.Join(fields, " ")
		}
		vals[pos] = s
	}

	return ds, nil, nil
}
