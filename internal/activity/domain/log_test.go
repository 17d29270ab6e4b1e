package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewEvent(productID uint, category string) ActivityEvent {
	return ActivityEvent{
		ActivityType: ActivityViewProduct,
		ProductID:    productID,
		Category:     category,
		Timestamp:    time.Now(),
	}
}

func TestLog_CapsRetainedEvents(t *testing.T) {
	log := NewLog(1)

	for i := 0; i < MaxActivities+1; i++ {
		log.AddActivity(ActivityEvent{
			ActivityType: ActivityPageView,
			SearchQuery:  fmt.Sprintf("q%d", i),
			Timestamp:    time.Now(),
		})
	}

	require.Equal(t, MaxActivities, log.Len())

	// The oldest event was evicted; the newest survives.
	events := log.Events()
	assert.Equal(t, "q1", events[0].SearchQuery)
	assert.Equal(t, fmt.Sprintf("q%d", MaxActivities), events[len(events)-1].SearchQuery)
}

func TestLog_AddActivityUpdatesLastActive(t *testing.T) {
	log := NewLog(1)
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	log.AddActivity(ActivityEvent{ActivityType: ActivityClick, Timestamp: ts})

	assert.Equal(t, ts, log.LastActiveAt)
}

func TestLog_FavoriteCategoriesTopThree(t *testing.T) {
	log := NewLog(1)

	for i := 0; i < 5; i++ {
		log.AddActivity(viewEvent(1, "iphone"))
	}
	for i := 0; i < 3; i++ {
		log.AddActivity(viewEvent(2, "mac"))
	}
	for i := 0; i < 2; i++ {
		log.AddActivity(viewEvent(3, "ipad"))
	}
	log.AddActivity(viewEvent(4, "watch"))

	assert.Equal(t, []string{"iphone", "mac", "ipad"}, log.Preferences.FavoriteCategories)
}

func TestLog_PreferencesUseOnlyRecentWindow(t *testing.T) {
	log := NewLog(1)

	// Old signal, pushed entirely out of the preference window.
	for i := 0; i < 50; i++ {
		log.AddActivity(viewEvent(1, "iphone"))
	}
	for i := 0; i < 100; i++ {
		log.AddActivity(viewEvent(2, "mac"))
	}

	assert.Equal(t, []string{"mac"}, log.Preferences.FavoriteCategories)
}

func TestLog_ApplyPreferenceUpdateIsPartial(t *testing.T) {
	log := NewLog(1)
	log.AddActivity(viewEvent(1, "iphone"))

	colors := []string{"Black"}
	log.ApplyPreferenceUpdate(PreferencesUpdate{
		ColorPreferences: &colors,
		PriceRange:       &PriceRange{Min: 100, Max: 2000},
	})

	assert.Equal(t, []string{"Black"}, log.Preferences.ColorPreferences)
	assert.Equal(t, PriceRange{Min: 100, Max: 2000}, log.Preferences.PriceRange)
	// Untouched fields survive.
	assert.Equal(t, []string{"iphone"}, log.Preferences.FavoriteCategories)
}

func TestLog_MostViewedProducts(t *testing.T) {
	log := NewLog(1)

	for i := 0; i < 3; i++ {
		log.AddActivity(viewEvent(10, "iphone"))
	}
	log.AddActivity(viewEvent(20, "mac"))
	// Non-view events never count.
	log.AddActivity(ActivityEvent{ActivityType: ActivityAddToCart, ProductID: 30, Timestamp: time.Now()})

	ids := log.MostViewedProducts(5)

	require.Len(t, ids, 2)
	assert.Equal(t, uint(10), ids[0])
	assert.Equal(t, uint(20), ids[1])
}

func TestLog_MostViewedTieBrokenByRecency(t *testing.T) {
	log := NewLog(1)

	log.AddActivity(viewEvent(10, "iphone"))
	log.AddActivity(viewEvent(20, "iphone"))

	ids := log.MostViewedProducts(5)

	require.Len(t, ids, 2)
	assert.Equal(t, uint(20), ids[0])
}

func TestLog_MostViewedRespectsLimit(t *testing.T) {
	log := NewLog(1)
	for i := 1; i <= 10; i++ {
		log.AddActivity(viewEvent(uint(i), "iphone"))
	}

	assert.Len(t, log.MostViewedProducts(3), 3)
}

func TestLog_CloneIsIndependent(t *testing.T) {
	log := NewLog(1)
	log.AddActivity(viewEvent(10, "iphone"))

	cp := log.Clone()
	cp.AddActivity(viewEvent(20, "mac"))

	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 2, cp.Len())
}

func TestLog_JSONRoundTrip(t *testing.T) {
	log := NewLog(42)
	log.AddActivity(viewEvent(10, "iphone"))
	log.AddActivity(ActivityEvent{ActivityType: ActivitySearch, SearchQuery: "macbook", Timestamp: time.Now()})

	data, err := json.Marshal(log)
	require.NoError(t, err)

	var restored Log
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, uint(42), restored.UserID)
	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, log.Preferences, restored.Preferences)

	// The restored ring still enforces the cap.
	for i := 0; i < MaxActivities; i++ {
		restored.AddActivity(viewEvent(1, "iphone"))
	}
	assert.Equal(t, MaxActivities, restored.Len())
}

func TestActivityType_Valid(t *testing.T) {
	assert.True(t, ActivityViewProduct.Valid())
	assert.True(t, ActivityOfferClick.Valid())
	assert.False(t, ActivityType("teleport").Valid())
	assert.False(t, ActivityType("").Valid())
}
