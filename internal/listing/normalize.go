package listing

import (
	"strings"

	apperrors "freegamewatch/pkg/errors"
)

// MaxDescriptionLen is the clamp applied to listing descriptions.
const MaxDescriptionLen = 200

// Normalize validates and repairs a listing before it enters the
// pipeline. Only an empty title or storefront rejects the record; every
// other defect is repaired in place (clamped description, trimmed
// fields, platform defaulted to PC).
func Normalize(l Listing) (Listing, error) {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return Listing{}, apperrors.NewValidation(string(l.Storefront), "listing has no title")
	}
	if strings.TrimSpace(string(l.Storefront)) == "" {
		return Listing{}, apperrors.NewValidation("", "listing has no storefront")
	}

	if l.Platform == "" {
		l.Platform = PlatformPC
	}

	l.Description = TruncateDescription(strings.TrimSpace(l.Description))
	l.ImageURL = strings.TrimSpace(l.ImageURL)
	l.ListingURL = strings.TrimSpace(l.ListingURL)
	l.OriginalPrice = strings.TrimSpace(l.OriginalPrice)
	l.ExpiresAt = strings.TrimSpace(l.ExpiresAt)
	l.StoreLogo = strings.TrimSpace(l.StoreLogo)

	return l, nil
}

// TruncateDescription clamps s to MaxDescriptionLen runes, appending a
// continuation marker when anything was cut.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescriptionLen {
		return s
	}
	return string(runes[:MaxDescriptionLen]) + "..."
}
