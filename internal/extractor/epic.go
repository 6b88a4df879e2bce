package extractor

import (
	"fmt"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
	"freegamewatch/services/cache"
)

const (
	epicStoreLogo    = "https://cdn2.unrealengine.com/epic-games-logo-400x400-400x400-8b560c1e48a1.png"
	epicFreeGamesURL = "https://store.epicgames.com/en-US/free-games"
)

// Epic extracts the weekly free games from the Epic Games Store
// promotions API.
type Epic struct {
	BaseExtractor
}

// NewEpic creates the Epic Games Store extractor
func NewEpic(cfg *config.Config, cacheSvc cache.Service) *Epic {
	return &Epic{
		BaseExtractor: newBase(cfg.EpicURL, cacheSvc, listing.StorefrontEpic, listing.PlatformPC, epicStoreLogo, epicFreeGamesURL),
	}
}

type epicResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []epicElement `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type epicElement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProductSlug string `json:"productSlug"`
	KeyImages   []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"keyImages"`
	Price struct {
		TotalPrice struct {
			FmtPrice struct {
				OriginalPrice string `json:"originalPrice"`
			} `json:"fmtPrice"`
		} `json:"totalPrice"`
	} `json:"price"`
	Promotions *struct {
		PromotionalOffers []struct {
			PromotionalOffers []epicOffer `json:"promotionalOffers"`
		} `json:"promotionalOffers"`
	} `json:"promotions"`
}

type epicOffer struct {
	EndDate         string `json:"endDate"`
	DiscountSetting struct {
		// Epic encodes the discount as the fraction of the price still
		// payable: 0 means the full price is waived.
		DiscountPercentage int `json:"discountPercentage"`
	} `json:"discountSetting"`
}

// Extract returns every catalog element carrying a currently running
// promotion that waives the full price. Any other discount, however
// close, is not a free game.
func (e *Epic) Extract() ([]listing.Listing, error) {
	var resp epicResponse
	if err := e.decodeJSON(&resp); err != nil {
		return nil, err
	}

	var listings []listing.Listing
	for _, element := range resp.Data.Catalog.SearchStore.Elements {
		if element.Promotions == nil {
			continue
		}

		for _, offerSet := range element.Promotions.PromotionalOffers {
			for _, offer := range offerSet.PromotionalOffers {
				if offer.DiscountSetting.DiscountPercentage != 0 {
					continue
				}

				if l := e.emit(e.buildListing(element, offer)); l != nil {
					listings = append(listings, *l)
				}
			}
		}
	}

	e.log.Info().Int("count", len(listings)).Msg("Found free games")
	return listings, nil
}

func (e *Epic) buildListing(element epicElement, offer epicOffer) listing.Listing {
	var imageURL string
	for _, image := range element.KeyImages {
		if image.Type == "DieselStoreFrontWide" || image.Type == "OfferImageWide" {
			imageURL = image.URL
			break
		}
	}

	var listingURL string
	if element.ProductSlug != "" {
		listingURL = fmt.Sprintf("https://store.epicgames.com/en-US/p/%s", element.ProductSlug)
	}

	return listing.Listing{
		Title:         element.Title,
		Description:   element.Description,
		ImageURL:      imageURL,
		ListingURL:    listingURL,
		OriginalPrice: element.Price.TotalPrice.FmtPrice.OriginalPrice,
		ExpiresAt:     offer.EndDate,
	}
}
