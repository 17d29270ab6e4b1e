package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tair/catalog-search/internal/activity/domain"
)

const (
	reportRecentActivities = 50
	reportRecentSearches   = 10
)

// ActivityReportQuery represents an admin report request for one user.
type ActivityReportQuery struct {
	UserID uint
}

// CategoryCount is one category with its activity count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RecentSearch is a past search query with its timestamp.
type RecentSearch struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivitySummary aggregates a user's retained activity.
type ActivitySummary struct {
	ViewedProductsCount int             `json:"viewedProductsCount"`
	FavoriteCategories  []CategoryCount `json:"favoriteCategories"`
	RecentSearches      []RecentSearch  `json:"recentSearches"`
	LastActive          time.Time       `json:"lastActive"`
}

// ActivityReport is the admin view over one user's activity log.
type ActivityReport struct {
	Preferences      domain.Preferences     `json:"preferences"`
	ActivitySummary  ActivitySummary        `json:"activitySummary"`
	RecentActivities []domain.ActivityEvent `json:"recentActivities"`
}

// ActivityReportHandler handles admin activity report queries
type ActivityReportHandler struct {
	repo domain.Repository
}

// NewActivityReportHandler creates a new activity report handler
func NewActivityReportHandler(repo domain.Repository) *ActivityReportHandler {
	return &ActivityReportHandler{repo: repo}
}

// Handle builds the report. A user without a log yields ErrNotFound.
func (h *ActivityReportHandler) Handle(ctx context.Context, q ActivityReportQuery) (*ActivityReport, error) {
	log, err := h.repo.Find(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("activity report: %w", err)
	}

	events := log.Events()

	viewed := make(map[uint]struct{})
	categories := make(map[string]int)
	var searches []RecentSearch
	for _, e := range events {
		if e.ActivityType == domain.ActivityViewProduct && e.ProductID != 0 {
			viewed[e.ProductID] = struct{}{}
		}
		if e.Category != "" {
			categories[e.Category]++
		}
		if e.ActivityType == domain.ActivitySearch && e.SearchQuery != "" {
			searches = append(searches, RecentSearch{Query: e.SearchQuery, Timestamp: e.Timestamp})
		}
	}

	categoryCounts := make([]CategoryCount, 0, len(categories))
	for name, count := range categories {
		categoryCounts = append(categoryCounts, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(categoryCounts, func(i, j int) bool {
		if categoryCounts[i].Count != categoryCounts[j].Count {
			return categoryCounts[i].Count > categoryCounts[j].Count
		}
		return categoryCounts[i].Name < categoryCounts[j].Name
	})

	// Newest searches first, capped.
	sort.SliceStable(searches, func(i, j int) bool {
		return searches[i].Timestamp.After(searches[j].Timestamp)
	})
	if len(searches) > reportRecentSearches {
		searches = searches[:reportRecentSearches]
	}

	// Last activities, newest first.
	start := len(events) - reportRecentActivities
	if start < 0 {
		start = 0
	}
	recent := make([]domain.ActivityEvent, 0, len(events)-start)
	for i := len(events) - 1; i >= start; i-- {
		recent = append(recent, events[i])
	}

	return &ActivityReport{
		Preferences: log.Preferences,
		ActivitySummary: ActivitySummary{
			ViewedProductsCount: len(viewed),
			FavoriteCategories:  categoryCounts,
			RecentSearches:      searches,
			LastActive:          log.LastActiveAt,
		},
		RecentActivities: recent,
	}, nil
}
