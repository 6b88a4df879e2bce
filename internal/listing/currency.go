package listing

import (
	"strings"
	"time"
)

// expiryLayouts are the timestamp shapes storefronts have been seen to
// emit. Layouts without a zone are interpreted as UTC.
var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IsCurrent reports whether the listing's offer is still active at now.
//
// The rule is deliberately fail-open: an empty expiry, a storefront
// phrase like "Limited time", or any text that simply cannot be parsed
// as a timestamp all count as active. Unparseable expiry text must never
// hide a real offer; only a timestamp known to be in the past expires a
// listing.
func IsCurrent(l Listing, now time.Time) bool {
	raw := strings.TrimSpace(l.ExpiresAt)
	if raw == "" {
		return true
	}

	expiry, ok := parseExpiry(raw)
	if !ok {
		return true
	}
	return expiry.After(now)
}

// parseExpiry tries each known layout, treating unzoned values as UTC.
func parseExpiry(raw string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterCurrent returns the listings still active at now, preserving
// input order.
func FilterCurrent(ls []Listing, now time.Time) []Listing {
	out := make([]Listing, 0, len(ls))
	for _, l := range ls {
		if IsCurrent(l, now) {
			out = append(out, l)
		}
	}
	return out
}
