package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
	"freegamewatch/services/cache"
)

const (
	nintendoStoreLogo  = "https://assets.nintendo.com/image/upload/ncom/en_US/merchandising/misc/nintendo-switch-logo.png"
	nintendoLandingURL = "https://www.nintendo.com/en-au/Nintendo-Switch.html"
)

// Nintendo extracts paid-now-free Switch games from the eShop search
// endpoint.
type Nintendo struct {
	BaseExtractor
}

// NewNintendo creates the Nintendo eShop extractor
func NewNintendo(cfg *config.Config, cacheSvc cache.Service) *Nintendo {
	params := url.Values{
		"q":    {"*"},
		"fq":   {"type:GAME AND system_type:nintendoswitch* AND price_has_discount_b:true AND price_discount_percentage_f:100"},
		"rows": {"50"},
		"sort": {"popularity desc"},
		"wt":   {"json"},
	}
	searchURL := cfg.NintendoURL + "?" + params.Encode()

	return &Nintendo{
		BaseExtractor: newBase(searchURL, cacheSvc, listing.StorefrontNintendo, listing.PlatformSwitch, nintendoStoreLogo, nintendoLandingURL),
	}
}

type nintendoResponse struct {
	Response struct {
		Docs []nintendoDoc `json:"docs"`
	} `json:"response"`
}

type nintendoDoc struct {
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	ImageURL      string   `json:"image_url"`
	NsuidTxt      []string `json:"nsuid_txt"`
	PriceRegular  float64  `json:"price_regular_f"`
	PriceLowest   float64  `json:"price_lowest_f"`
	Eligibilities []string `json:"price_discount_percentage_eligibilities_s"`
}

// Extract keeps entries with a real regular price dropped to exactly
// zero. Demos and trials are never offers, whatever their price fields
// claim.
func (n *Nintendo) Extract() ([]listing.Listing, error) {
	var resp nintendoResponse
	if err := n.decodeJSON(&resp); err != nil {
		return nil, err
	}

	var listings []listing.Listing
	for _, doc := range resp.Response.Docs {
		lowered := strings.ToLower(doc.Title)
		if strings.Contains(lowered, "demo") || strings.Contains(lowered, "trial") {
			continue
		}

		if doc.PriceRegular <= 0 || doc.PriceLowest != 0 {
			continue
		}

		if l := n.emit(n.buildListing(doc)); l != nil {
			listings = append(listings, *l)
		}
	}

	n.log.Info().Int("count", len(listings)).Msg("Found free games")
	return listings, nil
}

func (n *Nintendo) buildListing(doc nintendoDoc) listing.Listing {
	description := doc.Excerpt
	if description == "" {
		description = "Previously paid game, now free on Nintendo eShop"
	}

	imageURL := doc.ImageURL
	if imageURL != "" && !strings.HasPrefix(imageURL, "http") {
		imageURL = "https:" + imageURL
	}

	var listingURL string
	if len(doc.NsuidTxt) > 0 && doc.NsuidTxt[0] != "" {
		listingURL = fmt.Sprintf("https://www.nintendo.com/en-au/Games/%s", doc.NsuidTxt[0])
	}

	var expiresAt string
	if len(doc.Eligibilities) > 0 {
		expiresAt = doc.Eligibilities[0]
	}

	return listing.Listing{
		Title:         doc.Title,
		Description:   description,
		ImageURL:      imageURL,
		ListingURL:    listingURL,
		OriginalPrice: fmt.Sprintf("$%.2f", doc.PriceRegular),
		ExpiresAt:     expiresAt,
	}
}
