package extractor

import (
	"freegamewatch/config"
	"freegamewatch/internal/listing"
	"freegamewatch/services/cache"
)

const humbleStoreLogo = "https://humblebundle-a.akamaihd.net/static/hashed/favicon.ico"

// Humble checks the Humble Bundle store page. Paid-now-free giveaways
// there are rare one-off events with no stable markup, so the page is
// fetched to confirm reachability but no listings are derived from it.
type Humble struct {
	BaseExtractor
}

// NewHumble creates the Humble Bundle extractor
func NewHumble(cfg *config.Config, cacheSvc cache.Service) *Humble {
	return &Humble{
		BaseExtractor: newBase(cfg.HumbleURL, cacheSvc, listing.StorefrontHumble, listing.PlatformPC, humbleStoreLogo, cfg.HumbleURL),
	}
}

// Extract fetches the store page and yields nothing
func (h *Humble) Extract() ([]listing.Listing, error) {
	if _, err := h.document(); err != nil {
		return nil, err
	}

	h.log.Info().Msg("Checked Humble Bundle for free games (rare)")
	return nil, nil
}
