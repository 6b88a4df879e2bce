// Package notifier delivers the free-games digest to subscribers.
package notifier

import "freegamewatch/internal/listing"

// Notifier sends a digest of current listings to the given recipients.
type Notifier interface {
	// SendDigest sends one digest covering the batch. Nothing is sent
	// when the batch or the recipient list is empty.
	SendDigest(recipients []string, listings []listing.Listing) error
}
