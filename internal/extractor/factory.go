package extractor

import (
	"freegamewatch/config"
	"freegamewatch/internal/listing"
	"freegamewatch/logger"
	"freegamewatch/services/cache"
)

// CreateExtractors builds one extractor per enabled storefront, in the
// configured order. Unknown storefront names are logged and skipped so a
// typo in the enabled set cannot take down a cycle.
func CreateExtractors(cfg *config.Config, cacheSvc cache.Service, enabled []string) []Extractor {
	var extractors []Extractor

	for _, name := range enabled {
		store, ok := listing.ParseStorefront(name)
		if !ok {
			logger.Warn("Unknown storefront %q in enabled set, skipping", name)
			continue
		}

		switch store {
		case listing.StorefrontEpic:
			extractors = append(extractors, NewEpic(cfg, cacheSvc))
		case listing.StorefrontSteam:
			extractors = append(extractors, NewSteam(cfg, cacheSvc))
		case listing.StorefrontGOG:
			extractors = append(extractors, NewGOG(cfg, cacheSvc))
		case listing.StorefrontHumble:
			extractors = append(extractors, NewHumble(cfg, cacheSvc))
		case listing.StorefrontItch:
			extractors = append(extractors, NewItch(cfg, cacheSvc))
		case listing.StorefrontNintendo:
			extractors = append(extractors, NewNintendo(cfg, cacheSvc))
		case listing.StorefrontXbox:
			extractors = append(extractors, NewXbox(cfg, cacheSvc))
		case listing.StorefrontGooglePlay:
			extractors = append(extractors, NewGooglePlay(cfg, cacheSvc))
		case listing.StorefrontPrime:
			extractors = append(extractors, NewPrime())
		}
	}

	return extractors
}
