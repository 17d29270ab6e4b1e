package command

import (
	"context"
	"fmt"

	"github.com/tair/catalog-search/internal/activity/domain"
)

// UpdatePreferencesCommand represents a partial preference override for one
// user. Only non-nil fields overwrite.
type UpdatePreferencesCommand struct {
	UserID uint
	Update domain.PreferencesUpdate
}

// UpdatePreferencesHandler handles explicit preference updates
type UpdatePreferencesHandler struct {
	repo domain.Repository
}

// NewUpdatePreferencesHandler creates a new update preferences handler
func NewUpdatePreferencesHandler(repo domain.Repository) *UpdatePreferencesHandler {
	return &UpdatePreferencesHandler{repo: repo}
}

// Handle applies the partial update and returns the resulting preferences.
func (h *UpdatePreferencesHandler) Handle(ctx context.Context, cmd UpdatePreferencesCommand) (*domain.Preferences, error) {
	var updated domain.Preferences
	err := h.repo.Update(ctx, cmd.UserID, func(log *domain.Log) error {
		log.ApplyPreferenceUpdate(cmd.Update)
		updated = log.Preferences
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return &updated, nil
}
