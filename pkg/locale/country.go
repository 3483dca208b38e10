// Package locale lists the countries whose phone numbers are accepted.
package locale

import (
	"sort"

	"github.com/nyaruka/phonenumbers"
)

type Country struct {
	Code            string // ISO 3166-1 alpha-2
	Name            string
	DefaultTimezone string // IANA zone
}

var Countries = map[string]Country{
	"IL": {Code: "IL", Name: "Israel", DefaultTimezone: "Asia/Jerusalem"},
	"US": {Code: "US", Name: "United States", DefaultTimezone: "America/New_York"},
	"GB": {Code: "GB", Name: "United Kingdom", DefaultTimezone: "Europe/London"},
}

// Regions returns the supported country codes in parse order. National
// numbers are tried against each region in turn, so the order is fixed.
func Regions() []string {
	regions := make([]string, 0, len(Countries))
	for code := range Countries {
		regions = append(regions, code)
	}
	sort.Slice(regions, func(i, j int) bool {
		return regionRank(regions[i]) < regionRank(regions[j])
	})
	return regions
}

var parseOrder = []string{"US", "GB", "IL"}

func regionRank(code string) int {
	for i, c := range parseOrder {
		if c == code {
			return i
		}
	}
	return len(parseOrder)
}

// CountryOfPhone resolves an E.164 number to a supported country, or nil.
func CountryOfPhone(e164 string) *Country {
	parsed, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return nil
	}
	country, ok := Countries[phonenumbers.GetRegionCodeForNumber(parsed)]
	if !ok {
		return nil
	}
	return &country
}
