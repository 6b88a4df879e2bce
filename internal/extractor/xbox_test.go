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

func newTestXbox(html string) *Xbox {
	cfg := config.LoadConfig()
	x := NewXbox(&cfg, newMockCache())
	x.fetchFunc = func() (io.Reader, error) {
		return strings.NewReader(html), nil
	}
	return x
}

func TestXboxExtract(t *testing.T) {
	html := `<html><body>
		<div class="product-card">
			<h3>Forgotten Realm</h3>
			<a href="/en-AU/games/store/forgotten-realm/abc123">link</a>
			<img src="https://img.xbox.example/fr.jpg">
			<span class="price-original">$24.95</span>
		</div>
		<div class="game-card">
			<h3>Fortnite</h3>
			<a href="/en-AU/games/store/fortnite/xyz">link</a>
		</div>
	</body></html>`

	listings, err := newTestXbox(html).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1, "known free-to-play titles are not deals")

	l := listings[0]
	assert.Equal(t, "Forgotten Realm", l.Title)
	assert.Equal(t, listing.StorefrontXbox, l.Storefront)
	assert.Equal(t, listing.PlatformXbox, l.Platform)
	assert.Equal(t, "https://www.xbox.com/en-AU/games/store/forgotten-realm/abc123", l.ListingURL)
	assert.Equal(t, "$24.95", l.OriginalPrice)
	assert.Equal(t, "Limited time", l.ExpiresAt)
}

func TestXboxExtractPriceSentinel(t *testing.T) {
	html := `<html><body>
		<div class="product-card">
			<h3>No Price Card</h3>
			<a href="/en-AU/games/store/npc/1">link</a>
			<span class="price">$0.00</span>
		</div>
	</body></html>`

	listings, err := newTestXbox(html).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Was Paid", listings[0].OriginalPrice,
		"a $0 price tag recovers nothing; sentinel stands in")
}

func TestXboxExtractEmptyPage(t *testing.T) {
	listings, err := newTestXbox(`<html><body><p>maintenance</p></body></html>`).Extract()
	require.NoError(t, err)
	assert.Empty(t, listings)
}
