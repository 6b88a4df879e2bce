package extractor

import (
	"io"

	"freegamewatch/internal/listing"
)

// Extractor is the contract every storefront implementation satisfies.
// Extract returns the free listings found in one pass over the source;
// a source that fails returns an error and the worker treats it as an
// empty result, so no storefront can block the others in a cycle.
type Extractor interface {
	// Extract retrieves free-game listings from the storefront
	Extract() ([]listing.Listing, error)

	// GetName returns the extractor's name for logging and identification
	GetName() string

	// Storefront returns the storefront this extractor monitors
	Storefront() listing.Storefront
}

// FetchFunc fetches the raw source document. Tests swap it for a canned
// response.
type FetchFunc func() (io.Reader, error)
