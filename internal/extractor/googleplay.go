package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"freegamewatch/config"
	"freegamewatch/helpers"
	"freegamewatch/internal/listing"
	"freegamewatch/services/cache"
)

const (
	googlePlayStoreLogo = "https://www.gstatic.com/android/market_images/web/favicon_v2.ico"
	googlePlayBaseURL   = "https://play.google.com"

	googlePlayMaxLinks    = 20
	googlePlayMaxListings = 10
)

var googlePlayPriceRe = regexp.MustCompile(`\$\d+\.\d+`)

// GooglePlay extracts paid Android games dropped to $0.00 from the
// games-on-sale collection. A $0.00 card is only an offer when a
// distinguishable struck-through original price is recovered; without
// one the card cannot be told apart from an always-free app and is
// rejected.
type GooglePlay struct {
	BaseExtractor
}

// NewGooglePlay creates the Google Play extractor
func NewGooglePlay(cfg *config.Config, cacheSvc cache.Service) *GooglePlay {
	return &GooglePlay{
		BaseExtractor: newBase(cfg.GooglePlayURL, cacheSvc, listing.StorefrontGooglePlay, listing.PlatformAndroid, googlePlayStoreLogo, cfg.GooglePlayURL),
	}
}

// Extract walks app-detail links in the sale collection
func (g *GooglePlay) Extract() ([]listing.Listing, error) {
	doc, err := g.document()
	if err != nil {
		return nil, err
	}

	var listings []listing.Listing
	doc.Find("a[href*='/store/apps/details?id=']").Each(func(i int, link *goquery.Selection) {
		if i >= googlePlayMaxLinks || len(listings) >= googlePlayMaxListings {
			return
		}
		if l := g.processLink(link); l != nil {
			listings = append(listings, *l)
		}
	})

	g.log.Info().Int("count", len(listings)).Msg("Found free games")
	return listings, nil
}

func (g *GooglePlay) processLink(link *goquery.Selection) *listing.Listing {
	container := link.ParentsFiltered("div, article").First()
	if container.Length() == 0 {
		container = link
	}

	ariaLabel, _ := link.Attr("aria-label")
	title := strings.TrimSpace(ariaLabel)
	if title == "" {
		title = strings.TrimSpace(container.Find("[class*='title']").First().Text())
	}
	if title != "" {
		// Aria labels stack category lines under the name.
		title = strings.TrimSpace(strings.SplitN(title, "\n", 2)[0])
	}
	if len(title) < 2 {
		return nil
	}

	href, _ := link.Attr("href")
	listingURL := helpers.AbsoluteURL(googlePlayBaseURL, href)

	var imageURL string
	if img := container.Find("img").First(); img.Length() > 0 {
		src, _ := img.Attr("src")
		dataSrc, _ := img.Attr("data-src")
		imageURL = helpers.FirstAttr(src, dataSrc)
	}

	isFreeNow, originalPrice := g.readPrices(container, ariaLabel)
	if !isFreeNow || originalPrice == "" || originalPrice == "$0.00" {
		return nil
	}

	return g.emit(listing.Listing{
		Title:         title,
		Description:   fmt.Sprintf("Free Android game on Google Play! Was %s, now $0.00", originalPrice),
		ImageURL:      imageURL,
		ListingURL:    listingURL,
		OriginalPrice: originalPrice,
		ExpiresAt:     "Limited time sale",
	})
}

// readPrices decides whether the card is free right now and recovers the
// struck original price. Strategies are tried in order: explicit $0.00
// text node, strike-styled elements, then the aria-label price pair.
func (g *GooglePlay) readPrices(container *goquery.Selection, ariaLabel string) (bool, string) {
	isFreeNow := strings.Contains(container.Text(), "$0.00") ||
		strings.Contains(ariaLabel, "$0.00")

	var originalPrice string
	strikeSel := container.Find("[class*='original'], [class*='strike'], s, del, strike").First()
	if strikeSel.Length() > 0 {
		originalPrice = strings.TrimSpace(strikeSel.Text())
	}

	if originalPrice == "" && strings.Contains(ariaLabel, "$") {
		prices := googlePlayPriceRe.FindAllString(ariaLabel, -1)
		switch {
		case len(prices) >= 2:
			// Original first, current second.
			originalPrice = prices[0]
		case len(prices) == 1 && isFreeNow && prices[0] != "$0.00":
			originalPrice = prices[0]
		}
	}

	return isFreeNow, originalPrice
}
