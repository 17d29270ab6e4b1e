package domain

import (
	"context"
	"encoding/json"
	"time"

	searchdomain "github.com/tair/catalog-search/internal/search/domain"
)

// ActivityType enumerates trackable user actions.
type ActivityType string

const (
	ActivityViewProduct        ActivityType = "view_product"
	ActivityAddToCart          ActivityType = "add_to_cart"
	ActivityAddToWishlist      ActivityType = "add_to_wishlist"
	ActivityRemoveFromCart     ActivityType = "remove_from_cart"
	ActivityRemoveFromWishlist ActivityType = "remove_from_wishlist"
	ActivityPurchase           ActivityType = "purchase"
	ActivitySearch             ActivityType = "search"
	ActivityFilter             ActivityType = "filter"
	ActivityReview             ActivityType = "review"
	ActivityPageView           ActivityType = "page_view"
	ActivityClick              ActivityType = "click"
	ActivityOfferClick         ActivityType = "offer_click"
)

var validActivityTypes = map[ActivityType]struct{}{
	ActivityViewProduct:        {},
	ActivityAddToCart:          {},
	ActivityAddToWishlist:      {},
	ActivityRemoveFromCart:     {},
	ActivityRemoveFromWishlist: {},
	ActivityPurchase:           {},
	ActivitySearch:             {},
	ActivityFilter:             {},
	ActivityReview:             {},
	ActivityPageView:           {},
	ActivityClick:              {},
	ActivityOfferClick:         {},
}

// Valid reports whether the activity type is one of the known values.
func (t ActivityType) Valid() bool {
	_, ok := validActivityTypes[t]
	return ok
}

// ActivityEvent is a single timestamped user action. FilterOptions and
// Metadata are stored opaquely and never validated.
type ActivityEvent struct {
	ActivityType  ActivityType    `json:"activityType"`
	ProductID     uint            `json:"productId,omitempty"`
	Category      string          `json:"category,omitempty"`
	SearchQuery   string          `json:"searchQuery,omitempty"`
	FilterOptions json.RawMessage `json:"filterOptions,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	SessionID     string          `json:"sessionId,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	DurationMs    int64           `json:"durationMs,omitempty"`
}

// PriceRange bounds a user's preferred price band.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Preferences is the derived summary of a user's recent activity. Only
// favorite categories are recomputed from the log; the remaining fields are
// settable solely through an explicit preference update.
type Preferences struct {
	FavoriteCategories []string   `json:"favoriteCategories"`
	PriceRange         PriceRange `json:"priceRange"`
	FeaturePreferences []string   `json:"featurePreferences"`
	ColorPreferences   []string   `json:"colorPreferences"`
}

// PreferencesUpdate is a partial preference override; only non-nil fields
// overwrite.
type PreferencesUpdate struct {
	FavoriteCategories *[]string   `json:"favoriteCategories"`
	PriceRange         *PriceRange `json:"priceRange"`
	FeaturePreferences *[]string   `json:"featurePreferences"`
	ColorPreferences   *[]string   `json:"colorPreferences"`
}

// Repository persists per-user activity logs. Update serializes concurrent
// mutations of the same user's log; implementations must not hold a global
// lock across users.
type Repository interface {
	// Find returns the user's log or ErrNotFound.
	Find(ctx context.Context, userID uint) (*Log, error)
	// GetOrCreate returns the user's log, creating an empty one lazily.
	GetOrCreate(ctx context.Context, userID uint) (*Log, error)
	// Update applies fn to the user's log (created lazily) inside the
	// per-user critical section and persists the result.
	Update(ctx context.Context, userID uint, fn func(*Log) error) error
}

// CatalogLookup is the slice of the catalog the activity subsystem needs:
// resolving product references supplied by untrusted callers.
type CatalogLookup interface {
	FindByID(ctx context.Context, id uint) (*searchdomain.Product, error)
}
