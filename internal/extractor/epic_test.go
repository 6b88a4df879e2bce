package extractor

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
)

func newTestEpic(payload string) *Epic {
	cfg := config.LoadConfig()
	e := NewEpic(&cfg, newMockCache())
	e.fetchFunc = func() (io.Reader, error) {
		return strings.NewReader(payload), nil
	}
	return e
}

func TestEpicExtract(t *testing.T) {
	payload := `{
		"data": {"Catalog": {"searchStore": {"elements": [
			{
				"title": "Free This Week",
				"description": "A fine game",
				"productSlug": "free-this-week",
				"keyImages": [
					{"type": "Thumbnail", "url": "https://cdn.example.com/thumb.jpg"},
					{"type": "OfferImageWide", "url": "https://cdn.example.com/wide.jpg"}
				],
				"price": {"totalPrice": {"fmtPrice": {"originalPrice": "$29.99"}}},
				"promotions": {"promotionalOffers": [
					{"promotionalOffers": [
						{"endDate": "2024-05-02T15:00:00.000Z", "discountSetting": {"discountPercentage": 0}}
					]}
				]}
			},
			{
				"title": "Almost Free",
				"description": "Steep discount, still paid",
				"productSlug": "almost-free",
				"price": {"totalPrice": {"fmtPrice": {"originalPrice": "$49.99"}}},
				"promotions": {"promotionalOffers": [
					{"promotionalOffers": [
						{"endDate": "2024-05-02T15:00:00.000Z", "discountSetting": {"discountPercentage": 1}}
					]}
				]}
			},
			{
				"title": "No Promotions",
				"description": "Regular catalog item",
				"promotions": null
			}
		]}}}
	}`

	listings, err := newTestEpic(payload).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1, "only the full price drop qualifies")

	l := listings[0]
	assert.Equal(t, "Free This Week", l.Title)
	assert.Equal(t, listing.StorefrontEpic, l.Storefront)
	assert.Equal(t, listing.PlatformPC, l.Platform)
	assert.Equal(t, "https://cdn.example.com/wide.jpg", l.ImageURL)
	assert.Equal(t, "https://store.epicgames.com/en-US/p/free-this-week", l.ListingURL)
	assert.Equal(t, "$29.99", l.OriginalPrice)
	assert.Equal(t, "2024-05-02T15:00:00.000Z", l.ExpiresAt)
	assert.Equal(t, epicStoreLogo, l.StoreLogo)
}

func TestEpicExtractSlugFallback(t *testing.T) {
	payload := `{
		"data": {"Catalog": {"searchStore": {"elements": [
			{
				"title": "Slugless",
				"description": "d",
				"promotions": {"promotionalOffers": [
					{"promotionalOffers": [
						{"endDate": "", "discountSetting": {"discountPercentage": 0}}
					]}
				]}
			}
		]}}}
	}`

	listings, err := newTestEpic(payload).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, epicFreeGamesURL, listings[0].ListingURL,
		"missing slug must fall back to the free-games landing page")
}

func TestEpicExtractMalformedJSON(t *testing.T) {
	e := newTestEpic(`{"data": {`)
	_, err := e.Extract()
	assert.Error(t, err)
}

func TestEpicExtractFetchError(t *testing.T) {
	cfg := config.LoadConfig()
	e := NewEpic(&cfg, newMockCache())
	e.fetchFunc = func() (io.Reader, error) {
		return nil, errors.New("connection refused")
	}

	_, err := e.Extract()
	assert.Error(t, err)
}
