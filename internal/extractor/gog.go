package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"freegamewatch/config"
	"freegamewatch/helpers"
	"freegamewatch/internal/listing"
	"freegamewatch/services/cache"
)

const (
	gogStoreLogo = "https://www.gog.com/favicon.ico"
	gogBaseURL   = "https://www.gog.com"
	gogMaxTiles  = 10
)

// GOG extracts free games from the GOG catalog filtered to discounted
// zero-price titles. Free games on GOG are rare; whatever the filtered
// page shows is taken as the offer set.
type GOG struct {
	BaseExtractor
}

// NewGOG creates the GOG extractor
func NewGOG(cfg *config.Config, cacheSvc cache.Service) *GOG {
	return &GOG{
		BaseExtractor: newBase(cfg.GOGURL, cacheSvc, listing.StorefrontGOG, listing.PlatformPC, gogStoreLogo, cfg.GOGURL),
	}
}

// Extract collects product tiles from the filtered catalog page
func (g *GOG) Extract() ([]listing.Listing, error) {
	doc, err := g.document()
	if err != nil {
		return nil, err
	}

	var listings []listing.Listing
	doc.Find("a[class*='product-tile']").Each(func(i int, card *goquery.Selection) {
		if len(listings) >= gogMaxTiles {
			return
		}

		titleSel := card.Find("[class*='title']")
		title := strings.TrimSpace(titleSel.First().Text())
		if title == "" {
			return
		}

		href, _ := card.Attr("href")
		listingURL := helpers.AbsoluteURL(gogBaseURL, href)

		imageURL, _ := card.Find("img").Attr("src")

		l := g.emit(listing.Listing{
			Title:         title,
			Description:   "Free game on GOG",
			ImageURL:      imageURL,
			ListingURL:    listingURL,
			OriginalPrice: "Special Offer",
		})
		if l != nil {
			listings = append(listings, *l)
		}
	})

	g.log.Info().Int("count", len(listings)).Msg("Found free games")
	return listings, nil
}
