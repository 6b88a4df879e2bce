package extractor

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"freegamewatch/helpers"
	"freegamewatch/internal/listing"
	"freegamewatch/logger"
	apperrors "freegamewatch/pkg/errors"
	"freegamewatch/services/cache"
)

// defaultBlockTime is how long a storefront that answered 429 is left
// alone before the next fetch attempt.
const defaultBlockTime = 10 * time.Minute

// BaseExtractor provides common functionality for all extractors
type BaseExtractor struct {
	URL         string
	CacheKey    string
	CacheSvc    cache.Service
	BlockTime   time.Duration
	Store       listing.Storefront
	Platform    listing.Platform
	StoreLogo   string
	FallbackURL string

	// fetchFunc overrides the network fetch; tests inject canned bodies
	fetchFunc FetchFunc
	log       *logger.Logger
}

func newBase(url string, cacheSvc cache.Service, store listing.Storefront, platform listing.Platform, storeLogo, fallbackURL string) BaseExtractor {
	return BaseExtractor{
		URL:         url,
		CacheKey:    cacheKeyFor(store),
		CacheSvc:    cacheSvc,
		BlockTime:   defaultBlockTime,
		Store:       store,
		Platform:    platform,
		StoreLogo:   storeLogo,
		FallbackURL: fallbackURL,
		log:         logger.ForExtractor(string(store)),
	}
}

func cacheKeyFor(store listing.Storefront) string {
	key := strings.ToLower(string(store))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, ".", "")
	return key + "_blocked"
}

// GetName returns the extractor's name for logging
func (b *BaseExtractor) GetName() string {
	return string(b.Store)
}

// Storefront returns the storefront this extractor monitors
func (b *BaseExtractor) Storefront() listing.Storefront {
	return b.Store
}

// blocked reports whether an active fetch block is set for the source.
func (b *BaseExtractor) blocked() bool {
	if b.CacheSvc == nil || b.CacheKey == "" {
		return false
	}
	_, err := b.CacheSvc.Get(b.CacheKey)
	return err == nil
}

// noteRateLimit sets the fetch block when the storefront asked us to
// back off.
func (b *BaseExtractor) noteRateLimit(err error) {
	if b.CacheSvc == nil || b.CacheKey == "" {
		return
	}
	if !strings.Contains(err.Error(), "rate limited") {
		return
	}
	if setErr := b.CacheSvc.Set(b.CacheKey, []byte("blocked"), b.BlockTime); setErr != nil {
		b.log.Warn().Err(setErr).Msg("Failed to set block cache")
	}
}

// fetch returns the raw source document, honoring an active block.
func (b *BaseExtractor) fetch() (io.Reader, error) {
	if b.fetchFunc != nil {
		return b.fetchFunc()
	}

	if b.blocked() {
		return nil, apperrors.NewRateLimit(string(b.Store), b.BlockTime)
	}

	body, err := helpers.FetchHTML(b.URL)
	if err != nil {
		b.noteRateLimit(err)
		return nil, apperrors.NewNetwork(string(b.Store), "fetch failed", err)
	}
	return body, nil
}

// document fetches the source and parses it as HTML
func (b *BaseExtractor) document() (*goquery.Document, error) {
	body, err := b.fetch()
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, apperrors.NewParsing(string(b.Store), "HTML parse failed", err)
	}
	return doc, nil
}

// decodeJSON fetches the source as JSON and decodes it into v. Network
// fetches go through helpers.FetchJSON so the request carries a JSON
// accept header.
func (b *BaseExtractor) decodeJSON(v interface{}) error {
	if b.fetchFunc != nil {
		body, err := b.fetchFunc()
		if err != nil {
			return err
		}
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return apperrors.NewParsing(string(b.Store), "JSON decode failed", err)
		}
		return nil
	}

	if b.blocked() {
		return apperrors.NewRateLimit(string(b.Store), b.BlockTime)
	}

	if err := helpers.FetchJSON(b.URL, v); err != nil {
		b.noteRateLimit(err)
		if strings.Contains(err.Error(), "decode JSON") {
			return apperrors.NewParsing(string(b.Store), "JSON decode failed", err)
		}
		return apperrors.NewNetwork(string(b.Store), "fetch failed", err)
	}
	return nil
}

// emit stamps the listing with the extractor's storefront identity and
// runs it through the normalizer. A rejected record comes back nil.
// ListingURL falls back to the storefront landing page when the source
// yielded no per-item URL.
func (b *BaseExtractor) emit(l listing.Listing) *listing.Listing {
	l.Storefront = b.Store
	if l.Platform == "" {
		l.Platform = b.Platform
	}
	l.StoreLogo = b.StoreLogo
	if strings.TrimSpace(l.ListingURL) == "" {
		l.ListingURL = b.FallbackURL
	}

	normalized, err := listing.Normalize(l)
	if err != nil {
		b.log.Debug().Err(err).Msg("Dropped listing")
		return nil
	}
	return &normalized
}
