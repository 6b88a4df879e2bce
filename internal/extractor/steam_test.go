package extractor

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
)

func newTestSteam(html string) *Steam {
	cfg := config.LoadConfig()
	s := NewSteam(&cfg, newMockCache())
	s.fetchFunc = func() (io.Reader, error) {
		return strings.NewReader(html), nil
	}
	return s
}

func steamRow(appID, title, endDate string) string {
	return fmt.Sprintf(
		`<tr><td>1</td><td><a href="/app/%s/">%s</a></td><td>%s</td></tr>`,
		appID, title, endDate)
}

func TestSteamExtract(t *testing.T) {
	html := `<html><body><table class="table">
		<tr><th>#</th><th>Game</th><th>Ends</th></tr>` +
		steamRow("440", "Team Fortress Classic", "2024-04-01 17:00:00") +
		steamRow("570", "Another Keeper", "2024-04-02 10:00:00") +
		`</table></body></html>`

	listings, err := newTestSteam(html).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 2)

	l := listings[0]
	assert.Equal(t, "Team Fortress Classic", l.Title)
	assert.Equal(t, listing.StorefrontSteam, l.Storefront)
	assert.Equal(t, "https://store.steampowered.com/app/440/", l.ListingURL)
	assert.Equal(t, "https://cdn.cloudflare.steamstatic.com/steam/apps/440/header.jpg", l.ImageURL)
	assert.Equal(t, "Was Paid", l.OriginalPrice)
	assert.Equal(t, "2024-04-01 17:00:00", l.ExpiresAt)
}

func TestSteamExtractRowLimit(t *testing.T) {
	var rows strings.Builder
	rows.WriteString(`<html><body><table class="table"><tr><th>h</th></tr>`)
	for i := 0; i < 25; i++ {
		rows.WriteString(steamRow(fmt.Sprintf("%d", i), fmt.Sprintf("Game %d", i), ""))
	}
	rows.WriteString(`</table></body></html>`)

	listings, err := newTestSteam(rows.String()).Extract()
	require.NoError(t, err)
	assert.Len(t, listings, steamMaxRows, "ingest is bounded against page drift")
}

func TestSteamExtractSkipsShortRows(t *testing.T) {
	html := `<html><body><table class="table">
		<tr><th>h</th></tr>
		<tr><td>only one cell</td></tr>
		<tr><td>1</td><td>no link here</td><td>date</td></tr>` +
		steamRow("10", "Real Game", "soon") +
		`</table></body></html>`

	listings, err := newTestSteam(html).Extract()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Real Game", listings[0].Title)
}

func TestSteamExtractNoTable(t *testing.T) {
	listings, err := newTestSteam(`<html><body><p>redesigned page</p></body></html>`).Extract()
	require.NoError(t, err)
	assert.Empty(t, listings)
}
