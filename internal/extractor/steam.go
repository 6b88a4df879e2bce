package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"freegamewatch/config"
	"freegamewatch/helpers"
	"freegamewatch/internal/listing"
	"freegamewatch/services/cache"
)

const (
	steamStoreLogo  = "https://store.cloudflare.steamstatic.com/public/shared/images/header/logo_steam.svg"
	steamLandingURL = "https://store.steampowered.com"

	// steamMaxRows bounds how many leading table rows one cycle ingests,
	// so a page format drift cannot flood the store.
	steamMaxRows = 10
)

// Steam extracts "free to keep" games from the SteamDB upcoming-free
// table. The page itself curates what counts as free to keep; there is
// no discount field to verify, so trust is placed in that curation.
type Steam struct {
	BaseExtractor
}

// NewSteam creates the Steam free-to-keep extractor
func NewSteam(cfg *config.Config, cacheSvc cache.Service) *Steam {
	return &Steam{
		BaseExtractor: newBase(cfg.SteamURL, cacheSvc, listing.StorefrontSteam, listing.PlatformPC, steamStoreLogo, steamLandingURL),
	}
}

// Extract walks the free-to-keep table, skipping the header row
func (s *Steam) Extract() ([]listing.Listing, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}

	var listings []listing.Listing
	doc.Find("table.table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || len(listings) >= steamMaxRows {
			return
		}
		if l := s.processRow(row); l != nil {
			listings = append(listings, *l)
		}
	})

	s.log.Info().Int("count", len(listings)).Msg("Found free-to-keep games")
	return listings, nil
}

func (s *Steam) processRow(row *goquery.Selection) *listing.Listing {
	cols := row.Find("td")
	if cols.Length() < 3 {
		return nil
	}

	titleLink := cols.Eq(1).Find("a")
	if titleLink.Length() == 0 {
		return nil
	}

	title := strings.TrimSpace(titleLink.Text())
	href, _ := titleLink.Attr("href")

	var appID string
	if strings.Contains(href, "/") {
		appID, _ = helpers.GetSplitPart(strings.TrimRight(href, "/"), "/", -1)
	}

	endDate := strings.TrimSpace(cols.Eq(2).Text())

	var listingURL, imageURL string
	if appID != "" {
		listingURL = fmt.Sprintf("https://store.steampowered.com/app/%s/", appID)
		imageURL = fmt.Sprintf("https://cdn.cloudflare.steamstatic.com/steam/apps/%s/header.jpg", appID)
	}

	return s.emit(listing.Listing{
		Title:         title,
		Description:   "Free to Keep! Claim now and keep forever. Limited time offer.",
		ImageURL:      imageURL,
		ListingURL:    listingURL,
		OriginalPrice: "Was Paid",
		ExpiresAt:     endDate,
	})
}
