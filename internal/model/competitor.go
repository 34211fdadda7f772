package model

// Platform identifies which ecosystem a discovered competitor ships on.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// Origin identifies the directory a competitor was discovered through.
type Origin string

const (
	OriginPlayStore Origin = "play_store"
	OriginAppStore  Origin = "app_store"
	OriginWebSearch Origin = "web_search"
)

// Competitor is a normalized record for one discovered competing product.
// Identifiers are only unique per (Origin, Platform); the same product may
// legitimately appear once per directory and is never deduplicated.
type Competitor struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Rating      float64  `json:"rating"`
	Icon        string   `json:"icon,omitempty"`
	Description string   `json:"description,omitempty"`
	Platform    Platform `json:"platform"`
	Origin      Origin   `json:"origin"`
}
