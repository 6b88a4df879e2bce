package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freegamewatch/config"
	"freegamewatch/internal/extractor"
	"freegamewatch/internal/listing"
	"freegamewatch/services/notifier"
	"freegamewatch/services/store"
)

type stubExtractor struct {
	name     string
	store    listing.Storefront
	listings []listing.Listing
	err      error
}

func (s *stubExtractor) Extract() ([]listing.Listing, error) { return s.listings, s.err }
func (s *stubExtractor) GetName() string                     { return s.name }
func (s *stubExtractor) Storefront() listing.Storefront      { return s.store }

type stubNotifier struct {
	recipients []string
	listings   []listing.Listing
	calls      int
}

func (s *stubNotifier) SendDigest(recipients []string, listings []listing.Listing) error {
	s.recipients = recipients
	s.listings = listings
	s.calls++
	return nil
}

func newTestWorker(t *testing.T, extractors []extractor.Extractor, not *stubNotifier) (*Worker, store.Store) {
	t.Helper()
	st, err := store.NewSqliteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.LoadConfig()
	var n notifier.Notifier
	if not != nil {
		n = not
	}
	w := NewWorker(context.Background(), extractors, st, nil, n, &cfg)
	return w, st
}

func TestRunCycleSourceIsolation(t *testing.T) {
	good := &stubExtractor{
		name:  "Epic Games Store",
		store: listing.StorefrontEpic,
		listings: []listing.Listing{
			{Title: "Free Game", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC},
		},
	}
	broken := &stubExtractor{
		name:  "Steam",
		store: listing.StorefrontSteam,
		err:   errors.New("connection refused"),
	}

	w, st := newTestWorker(t, []extractor.Extractor{good, broken}, nil)

	summary := w.RunCycle()
	assert.Equal(t, 1, summary.Found)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, []string{"Steam"}, summary.Failed)

	saved, err := st.RecentListings(time.Hour)
	require.NoError(t, err)
	require.Len(t, saved, 1, "one broken source must not lose the others' results")
	assert.Equal(t, "Free Game", saved[0].Title)
}

func TestRunCycleIdempotent(t *testing.T) {
	ex := &stubExtractor{
		name:  "Epic Games Store",
		store: listing.StorefrontEpic,
		listings: []listing.Listing{
			{Title: "Free Game", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC},
		},
	}
	w, st := newTestWorker(t, []extractor.Extractor{ex}, nil)

	w.RunCycle()
	w.RunCycle()

	saved, err := st.RecentListings(time.Hour)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestCurrentListingsFiltersAndSorts(t *testing.T) {
	w, st := newTestWorker(t, nil, nil)

	for _, l := range []listing.Listing{
		{Title: "Android Game", Storefront: listing.StorefrontGooglePlay, Platform: listing.PlatformAndroid},
		{Title: "PC Game", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC, ExpiresAt: "Limited time"},
		{Title: "Gone Game", Storefront: listing.StorefrontSteam, Platform: listing.PlatformPC, ExpiresAt: "2020-01-01T00:00:00Z"},
		{Title: "Xbox Game", Storefront: listing.StorefrontXbox, Platform: listing.PlatformXbox},
		{Title: "Disabled Source Game", Storefront: listing.StorefrontPrime, Platform: listing.PlatformPC},
	} {
		require.NoError(t, st.UpsertListing(l))
	}

	current, err := w.CurrentListings()
	require.NoError(t, err)
	require.Len(t, current, 3, "expired and disabled-storefront listings drop out at read time")

	titles := []string{current[0].Title, current[1].Title, current[2].Title}
	assert.Equal(t, []string{"PC Game", "Xbox Game", "Android Game"}, titles, "platform rank orders the view")
}

func TestCurrentListingsHonorsEnabledStoresSetting(t *testing.T) {
	w, st := newTestWorker(t, nil, nil)

	require.NoError(t, st.UpsertListing(listing.Listing{
		Title: "Epic Freebie", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC,
	}))
	require.NoError(t, st.SetSetting("enabled_stores", "GOG"))

	current, err := w.CurrentListings()
	require.NoError(t, err)
	assert.Empty(t, current, "the stored enabled set overrides the process config")

	require.NoError(t, st.SetSetting("enabled_stores", "GOG, Epic Games Store"))
	current, err = w.CurrentListings()
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "Epic Freebie", current[0].Title)
}

func TestRunCycleSkipsDisabledSources(t *testing.T) {
	epic := &stubExtractor{
		name:  "Epic Games Store",
		store: listing.StorefrontEpic,
		listings: []listing.Listing{
			{Title: "Epic Freebie", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC},
		},
	}
	gog := &stubExtractor{
		name:  "GOG",
		store: listing.StorefrontGOG,
		listings: []listing.Listing{
			{Title: "GOG Freebie", Storefront: listing.StorefrontGOG, Platform: listing.PlatformPC},
		},
	}
	w, st := newTestWorker(t, []extractor.Extractor{epic, gog}, nil)
	require.NoError(t, st.SetSetting("enabled_stores", "GOG"))

	summary := w.RunCycle()
	assert.Equal(t, 1, summary.Found)
	assert.Equal(t, 1, summary.Saved)

	saved, err := st.RecentListings(time.Hour)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "GOG Freebie", saved[0].Title)
}

// windowStore records the window CurrentListings asks for.
type windowStore struct {
	store.Store
	settings map[string]string
	window   time.Duration
}

func (s *windowStore) Setting(key string) (string, error) { return s.settings[key], nil }

func (s *windowStore) RecentListings(window time.Duration) ([]listing.Listing, error) {
	s.window = window
	return nil, nil
}

func TestCurrentListingsHonorsRecencyHoursSetting(t *testing.T) {
	cfg := config.LoadConfig()
	st := &windowStore{settings: map[string]string{"recency_hours": "24"}}
	w := NewWorker(context.Background(), nil, st, nil, nil, &cfg)

	_, err := w.CurrentListings()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, st.window)

	st.settings["recency_hours"] = "not a number"
	_, err = w.CurrentListings()
	require.NoError(t, err)
	assert.Equal(t, cfg.RecencyWindow, st.window, "bad setting values fall back to config")
}

func TestRunAndNotifySendsCurrentListings(t *testing.T) {
	ex := &stubExtractor{
		name:  "Epic Games Store",
		store: listing.StorefrontEpic,
		listings: []listing.Listing{
			{Title: "Free Game", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC},
		},
	}
	not := &stubNotifier{}
	w, st := newTestWorker(t, []extractor.Extractor{ex}, not)
	require.NoError(t, st.AddRecipient("a@example.com"))

	_, err := w.RunAndNotify()
	require.NoError(t, err)

	assert.Equal(t, 1, not.calls)
	assert.Equal(t, []string{"a@example.com"}, not.recipients)
	require.Len(t, not.listings, 1)
	assert.Equal(t, "Free Game", not.listings[0].Title)
}
