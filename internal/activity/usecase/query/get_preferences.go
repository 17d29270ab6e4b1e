package query

import (
	"context"
	"fmt"

	"github.com/tair/catalog-search/internal/activity/domain"
)

// GetPreferencesQuery represents a preferences read for one user.
type GetPreferencesQuery struct {
	UserID uint
}

// GetPreferencesHandler handles preference reads. Reading preferences for a
// user without a log creates an empty one, mirroring the tracker.
type GetPreferencesHandler struct {
	repo domain.Repository
}

// NewGetPreferencesHandler creates a new get preferences handler
func NewGetPreferencesHandler(repo domain.Repository) *GetPreferencesHandler {
	return &GetPreferencesHandler{repo: repo}
}

// Handle executes the get preferences query
func (h *GetPreferencesHandler) Handle(ctx context.Context, q GetPreferencesQuery) (*domain.Preferences, error) {
	log, err := h.repo.GetOrCreate(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	prefs := log.Preferences
	return &prefs, nil
}
