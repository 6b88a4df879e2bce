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
	itchStoreLogo = "https://static.itch.io/images/itchio-textless-black.svg"
	itchBaseURL   = "https://itch.io"
	itchMaxCells  = 10
)

var itchPriceRe = regexp.MustCompile(`\$[\d.]+`)

// Itch extracts games with a full price drop from the itch.io on-sale
// catalog. The sale badge text is the only trusted signal: it must
// contain the exact token "-100%". A -90% badge, or any other discount
// however deep, is not a free game.
type Itch struct {
	BaseExtractor
}

// NewItch creates the itch.io extractor
func NewItch(cfg *config.Config, cacheSvc cache.Service) *Itch {
	return &Itch{
		BaseExtractor: newBase(cfg.ItchURL, cacheSvc, listing.StorefrontItch, listing.PlatformPC, itchStoreLogo, cfg.ItchURL),
	}
}

// Extract walks the on-sale game cells keeping only -100% badges
func (it *Itch) Extract() ([]listing.Listing, error) {
	doc, err := it.document()
	if err != nil {
		return nil, err
	}

	var listings []listing.Listing
	doc.Find("div.game_cell").Each(func(i int, cell *goquery.Selection) {
		if len(listings) >= itchMaxCells {
			return
		}
		if l := it.processCell(cell); l != nil {
			listings = append(listings, *l)
		}
	})

	it.log.Info().Int("count", len(listings)).Msg("Found -100% games")
	return listings, nil
}

func (it *Itch) processCell(cell *goquery.Selection) *listing.Listing {
	badge := cell.Find("div.sale_tag")
	if badge.Length() == 0 {
		return nil
	}
	if !strings.Contains(strings.TrimSpace(badge.Text()), "-100%") {
		return nil
	}

	titleTag := cell.Find("a.title")
	if titleTag.Length() == 0 {
		return nil
	}
	title := strings.TrimSpace(titleTag.Text())

	href, _ := titleTag.Attr("href")
	listingURL := helpers.AbsoluteURL(itchBaseURL, href)

	var imageURL string
	if img := cell.Find("img"); img.Length() > 0 {
		lazy, _ := img.Attr("data-lazy_src")
		src, _ := img.Attr("src")
		imageURL = helpers.FirstAttr(lazy, src)
	}

	originalPrice := it.recoverOriginalPrice(cell)

	return it.emit(listing.Listing{
		Title:         title,
		Description:   fmt.Sprintf("100%% OFF! Was %s, now FREE on Itch.io", originalPrice),
		ImageURL:      imageURL,
		ListingURL:    listingURL,
		OriginalPrice: originalPrice,
		ExpiresAt:     "Limited time sale",
	})
}

// recoverOriginalPrice digs the pre-discount price out of the cell,
// trying the price container first and the sale price element second.
// "Was Paid" stands in when neither yields a dollar figure.
func (it *Itch) recoverOriginalPrice(cell *goquery.Selection) string {
	originalPrice := "Was Paid"

	if priceContainer := cell.Find("div.price_value"); priceContainer.Length() > 0 {
		prices := itchPriceRe.FindAllString(priceContainer.Text(), -1)
		if len(prices) >= 2 {
			// First figure is the struck-through original.
			originalPrice = prices[0]
		} else if len(prices) == 1 && !strings.HasPrefix(prices[0], "$0") {
			originalPrice = prices[0]
		}
	}

	if !strings.HasPrefix(originalPrice, "$") {
		if salePrice := cell.Find("div.sale_price"); salePrice.Length() > 0 {
			if m := itchPriceRe.FindString(salePrice.Text()); m != "" && !strings.HasPrefix(m, "$0") {
				originalPrice = m
			}
		}
	}

	return originalPrice
}
