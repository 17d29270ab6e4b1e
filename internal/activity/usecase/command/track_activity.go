package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tair/catalog-search/internal/activity/domain"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/kafka"
	"github.com/tair/catalog-search/pkg/logger"
)

// EventPublisher pushes tracked activities onto the analytics stream.
type EventPublisher interface {
	PublishActivityTracked(ctx context.Context, event kafka.ActivityTrackedEvent) error
}

// TrackActivityCommand represents the command to record one user activity.
type TrackActivityCommand struct {
	UserID        uint
	ActivityType  string
	ProductID     uint
	Category      string
	SearchQuery   string
	FilterOptions json.RawMessage
	SessionID     string
	Metadata      json.RawMessage
	DurationMs    int64
}

// TrackActivityHandler appends activities to the user's bounded log and
// recomputes preferences. Product references supplied by the caller are
// re-validated against the catalog.
type TrackActivityHandler struct {
	repo      domain.Repository
	catalog   domain.CatalogLookup
	publisher EventPublisher
}

// NewTrackActivityHandler creates a new track activity handler. The
// publisher may be nil when the analytics stream is disabled.
func NewTrackActivityHandler(repo domain.Repository, catalog domain.CatalogLookup, publisher EventPublisher) *TrackActivityHandler {
	return &TrackActivityHandler{repo: repo, catalog: catalog, publisher: publisher}
}

// Handle executes the track activity command
func (h *TrackActivityHandler) Handle(ctx context.Context, cmd TrackActivityCommand) error {
	if cmd.ActivityType == "" {
		return fmt.Errorf("%w: activity type is required", searchdomain.ErrValidation)
	}
	activityType := domain.ActivityType(cmd.ActivityType)
	if !activityType.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", searchdomain.ErrValidation, cmd.ActivityType)
	}

	event := domain.ActivityEvent{
		ActivityType:  activityType,
		SearchQuery:   cmd.SearchQuery,
		FilterOptions: cmd.FilterOptions,
		Timestamp:     time.Now(),
		SessionID:     cmd.SessionID,
		Metadata:      cmd.Metadata,
		DurationMs:    cmd.DurationMs,
	}

	if cmd.ProductID != 0 {
		product, err := h.catalog.FindByID(ctx, cmd.ProductID)
		if err != nil {
			return fmt.Errorf("track activity: %w", err)
		}
		event.ProductID = product.ID
		event.Category = product.Category
	} else if cmd.Category != "" {
		event.Category = cmd.Category
	}

	err := h.repo.Update(ctx, cmd.UserID, func(log *domain.Log) error {
		log.AddActivity(event)
		return nil
	})
	if err != nil {
		return fmt.Errorf("track activity: %w", err)
	}

	if h.publisher != nil {
		tracked := kafka.ActivityTrackedEvent{
			UserID:       cmd.UserID,
			ActivityType: cmd.ActivityType,
			ProductID:    event.ProductID,
			Category:     event.Category,
			SearchQuery:  cmd.SearchQuery,
			SessionID:    cmd.SessionID,
			Timestamp:    event.Timestamp,
		}
		if err := h.publisher.PublishActivityTracked(ctx, tracked); err != nil {
			// Analytics is best-effort; the activity is already recorded.
			logger.Warn(ctx).Err(err).Uint("user_id", cmd.UserID).Msg("Failed to publish activity event")
		}
	}

	return nil
}
