package extractor

import (
	"freegamewatch/internal/listing"
	"freegamewatch/logger"
)

// Prime is a disabled placeholder. Prime Gaming's free-game claims sit
// behind an Amazon session, which rules out safe extraction, so the
// source always reports empty.
type Prime struct {
	log *logger.Logger
}

// NewPrime creates the disabled Prime Gaming extractor
func NewPrime() *Prime {
	return &Prime{log: logger.ForExtractor(string(listing.StorefrontPrime))}
}

// Extract always returns no listings
func (p *Prime) Extract() ([]listing.Listing, error) {
	p.log.Info().Msg("Prime Gaming extractor is disabled")
	return nil, nil
}

// GetName returns the extractor's name for logging
func (p *Prime) GetName() string {
	return string(listing.StorefrontPrime)
}

// Storefront returns the storefront this extractor monitors
func (p *Prime) Storefront() listing.Storefront {
	return listing.StorefrontPrime
}
