package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-search/internal/activity/domain"
	"github.com/tair/catalog-search/internal/activity/repository"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
)

func seedLog(t *testing.T, repo *repository.MemoryActivityRepository, userID uint, events ...domain.ActivityEvent) {
	t.Helper()
	require.NoError(t, repo.Update(context.Background(), userID, func(log *domain.Log) error {
		for _, e := range events {
			log.AddActivity(e)
		}
		return nil
	}))
}

func TestActivityReport_UnknownUserIsNotFound(t *testing.T) {
	handler := NewActivityReportHandler(repository.NewMemoryActivityRepository())

	_, err := handler.Handle(context.Background(), ActivityReportQuery{UserID: 1})

	require.Error(t, err)
	assert.True(t, errors.Is(err, searchdomain.ErrNotFound))
}

func TestActivityReport_SummarizesActivity(t *testing.T) {
	repo := repository.NewMemoryActivityRepository()
	now := time.Now()
	seedLog(t, repo, 1,
		domain.ActivityEvent{ActivityType: domain.ActivityViewProduct, ProductID: 10, Category: "iphone", Timestamp: now.Add(-3 * time.Minute)},
		domain.ActivityEvent{ActivityType: domain.ActivityViewProduct, ProductID: 10, Category: "iphone", Timestamp: now.Add(-2 * time.Minute)},
		domain.ActivityEvent{ActivityType: domain.ActivityViewProduct, ProductID: 20, Category: "mac", Timestamp: now.Add(-1 * time.Minute)},
		domain.ActivityEvent{ActivityType: domain.ActivitySearch, SearchQuery: "airpods", Timestamp: now},
	)
	handler := NewActivityReportHandler(repo)

	report, err := handler.Handle(context.Background(), ActivityReportQuery{UserID: 1})

	require.NoError(t, err)
	// Distinct products viewed, not raw view events.
	assert.Equal(t, 2, report.ActivitySummary.ViewedProductsCount)

	require.NotEmpty(t, report.ActivitySummary.FavoriteCategories)
	assert.Equal(t, CategoryCount{Name: "iphone", Count: 2}, report.ActivitySummary.FavoriteCategories[0])

	require.Len(t, report.ActivitySummary.RecentSearches, 1)
	assert.Equal(t, "airpods", report.ActivitySummary.RecentSearches[0].Query)

	// Recent activities come newest first.
	require.Len(t, report.RecentActivities, 4)
	assert.Equal(t, domain.ActivitySearch, report.RecentActivities[0].ActivityType)
	assert.Equal(t, domain.ActivityViewProduct, report.RecentActivities[3].ActivityType)

	assert.Equal(t, []string{"iphone", "mac"}, report.Preferences.FavoriteCategories)
}

func TestActivityReport_CapsRecentLists(t *testing.T) {
	repo := repository.NewMemoryActivityRepository()
	events := make([]domain.ActivityEvent, 0, 80)
	for i := 0; i < 80; i++ {
		events = append(events, domain.ActivityEvent{
			ActivityType: domain.ActivitySearch,
			SearchQuery:  "q",
			Timestamp:    time.Now().Add(time.Duration(i) * time.Second),
		})
	}
	seedLog(t, repo, 1, events...)
	handler := NewActivityReportHandler(repo)

	report, err := handler.Handle(context.Background(), ActivityReportQuery{UserID: 1})

	require.NoError(t, err)
	assert.Len(t, report.RecentActivities, 50)
	assert.Len(t, report.ActivitySummary.RecentSearches, 10)
}

func TestMostViewed_UnknownUserHasNoSignal(t *testing.T) {
	handler := NewMostViewedHandler(repository.NewMemoryActivityRepository())

	ids, err := handler.MostViewedProducts(context.Background(), 1, 5)

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMostViewed_RanksByViewCount(t *testing.T) {
	repo := repository.NewMemoryActivityRepository()
	now := time.Now()
	seedLog(t, repo, 1,
		domain.ActivityEvent{ActivityType: domain.ActivityViewProduct, ProductID: 10, Timestamp: now},
		domain.ActivityEvent{ActivityType: domain.ActivityViewProduct, ProductID: 20, Timestamp: now},
		domain.ActivityEvent{ActivityType: domain.ActivityViewProduct, ProductID: 10, Timestamp: now},
	)
	handler := NewMostViewedHandler(repo)

	ids, err := handler.MostViewedProducts(context.Background(), 1, 5)

	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, uint(10), ids[0])
}

func TestGetPreferences_CreatesEmptyLogOnFirstRead(t *testing.T) {
	repo := repository.NewMemoryActivityRepository()
	handler := NewGetPreferencesHandler(repo)

	prefs, err := handler.Handle(context.Background(), GetPreferencesQuery{UserID: 1})

	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Empty(t, prefs.FavoriteCategories)

	// The lazily created log is now visible.
	_, err = repo.Find(context.Background(), 1)
	assert.NoError(t, err)
}
