package extractor

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
)

func newTestNintendo(payload string) *Nintendo {
	cfg := config.LoadConfig()
	n := NewNintendo(&cfg, newMockCache())
	n.fetchFunc = func() (io.Reader, error) {
		return strings.NewReader(payload), nil
	}
	return n
}

func TestNintendoExtract(t *testing.T) {
	payload := `{"response": {"docs": [
		{
			"title": "Super Game",
			"excerpt": "A platformer",
			"image_url": "//img.nintendo.example/sg.png",
			"nsuid_txt": ["70010000001"],
			"price_regular_f": 19.99,
			"price_lowest_f": 0,
			"price_discount_percentage_eligibilities_s": ["2024-06-30T21:59:59Z"]
		},
		{
			"title": "Super Game Demo",
			"price_regular_f": 19.99,
			"price_lowest_f": 0
		},
		{
			"title": "Trial of Champions TRIAL Edition",
			"price_regular_f": 9.99,
			"price_lowest_f": 0
		},
		{
			"title": "Discounted Not Free",
			"price_regular_f": 29.99,
			"price_lowest_f": 0.29
		},
		{
			"title": "Always Free",
			"price_regular_f": 0,
			"price_lowest_f": 0
		}
	]}}`

	listings, err := newTestNintendo(payload).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "Super Game", l.Title)
	assert.Equal(t, listing.StorefrontNintendo, l.Storefront)
	assert.Equal(t, listing.PlatformSwitch, l.Platform)
	assert.Equal(t, "https://img.nintendo.example/sg.png", l.ImageURL, "scheme-relative image gets https")
	assert.Equal(t, "https://www.nintendo.com/en-au/Games/70010000001", l.ListingURL)
	assert.Equal(t, "$19.99", l.OriginalPrice)
	assert.Equal(t, "2024-06-30T21:59:59Z", l.ExpiresAt)
}

func TestNintendoExtractNsuidFallback(t *testing.T) {
	payload := `{"response": {"docs": [
		{"title": "No ID Game", "price_regular_f": 5, "price_lowest_f": 0}
	]}}`

	listings, err := newTestNintendo(payload).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, nintendoLandingURL, listings[0].ListingURL)
	assert.Equal(t, "Previously paid game, now free on Nintendo eShop", listings[0].Description)
}

func TestNintendoExtractEmptyResponse(t *testing.T) {
	listings, err := newTestNintendo(`{"response": {"docs": []}}`).Extract()
	require.NoError(t, err)
	assert.Empty(t, listings)
}
