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
	xboxStoreLogo = "https://www.xbox.com/favicon.ico"
	xboxBaseURL   = "https://www.xbox.com"

	xboxMaxCards    = 15
	xboxMaxListings = 10
)

// Titles that are permanently free-to-play and therefore never a deal,
// whatever the price filter claims.
var xboxFreeToPlay = []string{"fortnite", "warzone", "apex legends", "rocket league"}

// Xbox extracts free deals from the Xbox browse page filtered to a zero
// price. The page mixes always-free titles into the channel, so known
// free-to-play names are skipped and the struck original price is
// recovered when the card carries one.
type Xbox struct {
	BaseExtractor
}

// NewXbox creates the Xbox Store extractor
func NewXbox(cfg *config.Config, cacheSvc cache.Service) *Xbox {
	return &Xbox{
		BaseExtractor: newBase(cfg.XboxURL, cacheSvc, listing.StorefrontXbox, listing.PlatformXbox, xboxStoreLogo, cfg.XboxURL),
	}
}

// Extract collects game cards from the deals channel
func (x *Xbox) Extract() ([]listing.Listing, error) {
	doc, err := x.document()
	if err != nil {
		return nil, err
	}

	cards := doc.Find("div[class*='product'], article[class*='product'], div[class*='game'], article[class*='game']")

	var listings []listing.Listing
	cards.Each(func(i int, card *goquery.Selection) {
		if i >= xboxMaxCards || len(listings) >= xboxMaxListings {
			return
		}
		if l := x.processCard(card); l != nil {
			listings = append(listings, *l)
		}
	})

	x.log.Info().Int("count", len(listings)).Msg("Found free deals")
	return listings, nil
}

func (x *Xbox) processCard(card *goquery.Selection) *listing.Listing {
	titleSel := card.Find("h3, h4, h2, a").First()
	if titleSel.Length() == 0 {
		return nil
	}
	title := strings.TrimSpace(titleSel.Text())
	if title == "" {
		return nil
	}

	lowered := strings.ToLower(title)
	for _, f2p := range xboxFreeToPlay {
		if strings.Contains(lowered, f2p) {
			return nil
		}
	}

	var listingURL string
	if link := card.Find("a[href]").First(); link.Length() > 0 {
		href, _ := link.Attr("href")
		listingURL = helpers.AbsoluteURL(xboxBaseURL, href)
	}

	var imageURL string
	if img := card.Find("img").First(); img.Length() > 0 {
		src, _ := img.Attr("src")
		dataSrc, _ := img.Attr("data-src")
		imageURL = helpers.FirstAttr(src, dataSrc)
	}

	originalPrice := "Was Paid"
	if priceSel := card.Find("[class*='price']").First(); priceSel.Length() > 0 {
		priceText := strings.TrimSpace(priceSel.Text())
		if strings.Contains(priceText, "$") && !strings.Contains(priceText, "$0") {
			originalPrice = priceText
		}
	}

	return x.emit(listing.Listing{
		Title:         title,
		Description:   "Free game deal on Xbox Store. Was paid, now free!",
		ImageURL:      imageURL,
		ListingURL:    listingURL,
		OriginalPrice: originalPrice,
		ExpiresAt:     "Limited time",
	})
}
