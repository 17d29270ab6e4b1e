package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	// MaxActivities caps the retained events per user; the oldest events
	// are evicted first once exceeded.
	MaxActivities = 500

	// preferenceWindow is how many of the newest events feed preference
	// derivation.
	preferenceWindow = 100

	maxFavoriteCategories = 3
)

// Log is one user's bounded activity history with derived preferences.
// It is not safe for concurrent use; the repository serializes access.
type Log struct {
	UserID       uint
	events       *eventRing
	Preferences  Preferences
	LastActiveAt time.Time
}

// NewLog creates an empty activity log for a user.
func NewLog(userID uint) *Log {
	return &Log{
		UserID: userID,
		events: newEventRing(MaxActivities),
	}
}

// AddActivity appends an event, updates the last-active timestamp, evicts
// beyond the cap and recomputes preferences, all in one step so eviction can
// never race a concurrent append.
func (l *Log) AddActivity(e ActivityEvent) {
	l.events.Append(e)
	l.LastActiveAt = e.Timestamp
	l.recomputePreferences()
}

// Events returns the retained events, oldest first.
func (l *Log) Events() []ActivityEvent {
	return l.events.Events()
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	return l.events.Len()
}

// recomputePreferences rebuilds favorite categories from the most recent
// events. Price, feature and color preferences are deliberately left
// untouched; they change only through explicit preference updates.
func (l *Log) recomputePreferences() {
	recent := l.events.Recent(preferenceWindow)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, e := range recent {
		if e.Category == "" {
			continue
		}
		if _, ok := counts[e.Category]; !ok {
			firstSeen[e.Category] = i
		}
		counts[e.Category]++
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return firstSeen[categories[i]] < firstSeen[categories[j]]
	})
	if len(categories) > maxFavoriteCategories {
		categories = categories[:maxFavoriteCategories]
	}
	l.Preferences.FavoriteCategories = categories
}

// ApplyPreferenceUpdate overwrites only the supplied preference fields.
func (l *Log) ApplyPreferenceUpdate(u PreferencesUpdate) {
	if u.FavoriteCategories != nil {
		l.Preferences.FavoriteCategories = *u.FavoriteCategories
	}
	if u.PriceRange != nil {
		l.Preferences.PriceRange = *u.PriceRange
	}
	if u.FeaturePreferences != nil {
		l.Preferences.FeaturePreferences = *u.FeaturePreferences
	}
	if u.ColorPreferences != nil {
		l.Preferences.ColorPreferences = *u.ColorPreferences
	}
}

// MostViewedProducts returns product ids ranked by view_product count,
// ties broken by most recent view.
func (l *Log) MostViewedProducts(limit int) []uint {
	events := l.events.Events()

	views := make(map[uint]int)
	lastSeen := make(map[uint]int)
	for i, e := range events {
		if e.ActivityType == ActivityViewProduct && e.ProductID != 0 {
			views[e.ProductID]++
			lastSeen[e.ProductID] = i
		}
	}

	ids := make([]uint, 0, len(views))
	for id := range views {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if views[ids[i]] != views[ids[j]] {
			return views[ids[i]] > views[ids[j]]
		}
		return lastSeen[ids[i]] > lastSeen[ids[j]]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// Clone returns a deep copy safe to hand outside the repository's critical
// section.
func (l *Log) Clone() *Log {
	cp := *l
	cp.events = l.events.clone()
	cp.Preferences.FavoriteCategories = append([]string(nil), l.Preferences.FavoriteCategories...)
	cp.Preferences.FeaturePreferences = append([]string(nil), l.Preferences.FeaturePreferences...)
	cp.Preferences.ColorPreferences = append([]string(nil), l.Preferences.ColorPreferences...)
	return &cp
}

// logSnapshot is the persisted wire form of a Log.
type logSnapshot struct {
	UserID       uint            `json:"userId"`
	Events       []ActivityEvent `json:"events"`
	Preferences  Preferences     `json:"preferences"`
	LastActiveAt time.Time       `json:"lastActiveAt"`
}

// MarshalJSON flattens the ring buffer into a plain event slice.
func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(logSnapshot{
		UserID:       l.UserID,
		Events:       l.Events(),
		Preferences:  l.Preferences,
		LastActiveAt: l.LastActiveAt,
	})
}

// UnmarshalJSON rebuilds the ring buffer from a persisted snapshot.
func (l *Log) UnmarshalJSON(data []byte) error {
	var snap logSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	l.UserID = snap.UserID
	l.Preferences = snap.Preferences
	l.LastActiveAt = snap.LastActiveAt
	l.events = newEventRing(MaxActivities)
	for _, e := range snap.Events {
		l.events.Append(e)
	}
	return nil
}
