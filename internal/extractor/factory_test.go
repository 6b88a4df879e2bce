package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
)

func TestCreateExtractors(t *testing.T) {
	cfg := config.LoadConfig()

	extractors := CreateExtractors(&cfg, newMockCache(), config.DefaultEnabledStores)
	require.Len(t, extractors, len(config.DefaultEnabledStores))

	for i, name := range config.DefaultEnabledStores {
		store, ok := listing.ParseStorefront(name)
		require.True(t, ok)
		assert.Equal(t, store, extractors[i].Storefront(), "order follows the enabled set")
	}
}

func TestCreateExtractorsUnknownSkipped(t *testing.T) {
	cfg := config.LoadConfig()

	extractors := CreateExtractors(&cfg, newMockCache(), []string{
		"Epic Games Store", "Definitely Not A Store", "GOG",
	})
	require.Len(t, extractors, 2)
	assert.Equal(t, listing.StorefrontEpic, extractors[0].Storefront())
	assert.Equal(t, listing.StorefrontGOG, extractors[1].Storefront())
}

func TestPrimeExtractorDisabled(t *testing.T) {
	p := NewPrime()

	listings, err := p.Extract()
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Equal(t, listing.StorefrontPrime, p.Storefront())
}
