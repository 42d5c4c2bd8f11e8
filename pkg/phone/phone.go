// Package phone formats user-entered phone numbers for display.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when no region is given.
const DefaultRegion = "US"

// Format returns raw in national format for region, e.g. "(662) 640-4004".
// Input that does not parse as a valid number is returned trimmed but
// otherwise unchanged, so nothing the patient typed is lost.
func Format(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	if phonenumbers.GetRegionCodeForNumber(num) != strings.ToUpper(region) {
		return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
