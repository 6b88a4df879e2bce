package listing

import "time"

// Storefront identifies a monitored game marketplace
type Storefront string

const (
	StorefrontEpic       Storefront = "Epic Games Store"
	StorefrontSteam      Storefront = "Steam"
	StorefrontGOG        Storefront = "GOG"
	StorefrontHumble     Storefront = "Humble Bundle"
	StorefrontItch       Storefront = "Itch.io"
	StorefrontNintendo   Storefront = "Nintendo Switch"
	StorefrontXbox       Storefront = "Xbox Store"
	StorefrontGooglePlay Storefront = "Google Play Games"
	StorefrontPrime      Storefront = "Prime Gaming"
)

// AllStorefronts returns every known storefront in display order
func AllStorefronts() []Storefront {
	return []Storefront{
		StorefrontEpic,
		StorefrontSteam,
		StorefrontGOG,
		StorefrontHumble,
		StorefrontItch,
		StorefrontNintendo,
		StorefrontXbox,
		StorefrontGooglePlay,
		StorefrontPrime,
	}
}

// ParseStorefront maps a configured storefront name onto the enumeration
func ParseStorefront(name string) (Storefront, bool) {
	for _, s := range AllStorefronts() {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Platform identifies the gaming platform a listing belongs to
type Platform string

const (
	PlatformPC      Platform = "PC"
	PlatformXbox    Platform = "Xbox"
	PlatformSwitch  Platform = "Nintendo Switch"
	PlatformAndroid Platform = "Android"
)

var platformRank = map[Platform]int{
	PlatformPC:      1,
	PlatformXbox:    2,
	PlatformSwitch:  3,
	PlatformAndroid: 4,
}

// Rank returns the fixed sort rank of the platform; unknown platforms
// sort last
func (p Platform) Rank() int {
	if r, ok := platformRank[p]; ok {
		return r
	}
	return 99
}

// Listing is the normalized record for one free-game offer from one
// storefront
type Listing struct {
	Title         string     `json:"title"`
	Storefront    Storefront `json:"storefront"`
	Platform      Platform   `json:"platform"`
	Description   string     `json:"description,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	ListingURL    string     `json:"listing_url"`
	OriginalPrice string     `json:"original_price,omitempty"`
	ExpiresAt     string     `json:"expires_at,omitempty"`
	StoreLogo     string     `json:"store_logo,omitempty"`
	FirstSeen     time.Time  `json:"first_seen,omitempty"`
	LastSeen      time.Time  `json:"last_seen,omitempty"`
}
