package publisher

import "freegamewatch/internal/listing"

// Publisher pushes freshly found listings to downstream consumers.
type Publisher interface {
	// PublishListings publishes a batch of listings found in one cycle.
	// An empty batch is a no-op.
	PublishListings(listings []listing.Listing) error

	// Close closes the publisher connection
	Close() error
}
