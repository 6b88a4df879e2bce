// Package store persists listings, recipients, settings and custom store
// definitions in SQLite. Listings are keyed by (title, storefront): seeing
// the same offer again refreshes last_seen and the mutable fields but never
// touches first_seen, so a cycle can be re-run any number of times without
// duplicating rows.
package store

import (
	"time"

	"freegamewatch/internal/listing"
)

// Recipient is an email subscriber for the digest.
type Recipient struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	AddedDate time.Time `json:"added_date"`
}

// CustomStore is a user-defined source checked by pattern match.
type CustomStore struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Pattern   string    `json:"pattern"`
	Active    bool      `json:"active"`
	AddedDate time.Time `json:"added_date"`
}

type Store interface {
	// UpsertListing inserts a listing or, when (title, storefront) already
	// exists, refreshes last_seen and the mutable fields in place.
	UpsertListing(l listing.Listing) error

	// RecentListings returns listings whose last_seen falls inside the
	// window, newest first.
	RecentListings(window time.Duration) ([]listing.Listing, error)

	ActiveRecipients() ([]string, error)
	AddRecipient(email string) error
	RemoveRecipient(email string) error

	// Setting returns the stored value for key, or "" when unset.
	Setting(key string) (string, error)
	SetSetting(key, value string) error
	Settings() (map[string]string, error)

	CustomStores() ([]CustomStore, error)
	AddCustomStore(name, url, pattern string) (int64, error)
	RemoveCustomStore(id int64) error

	Close() error
}
