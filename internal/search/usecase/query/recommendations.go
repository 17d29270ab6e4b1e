package query

import (
	"context"
	"fmt"

	"github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/pkg/logger"
)

const defaultRecommendationLimit = 6

// ViewHistory supplies a user's most-viewed product ids, descending by view
// count. Implemented by the activity subsystem.
type ViewHistory interface {
	MostViewedProducts(ctx context.Context, userID uint, limit int) ([]uint, error)
}

// RecommendationsQuery represents a personalized recommendation request.
type RecommendationsQuery struct {
	UserID uint
	Limit  int
}

// RecommendationsHandler converts a user's view history into products,
// falling back entirely to trending when there is no signal.
type RecommendationsHandler struct {
	repo     domain.ProductRepository
	views    ViewHistory
	trending *TrendingHandler
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(repo domain.ProductRepository, views ViewHistory, trending *TrendingHandler) *RecommendationsHandler {
	return &RecommendationsHandler{repo: repo, views: views, trending: trending}
}

// Handle returns up to Limit recommended products. "No data" is never an
// error; only a downstream catalog failure is.
func (h *RecommendationsHandler) Handle(ctx context.Context, q RecommendationsQuery) ([]domain.Product, error) {
	if q.Limit < 1 {
		q.Limit = defaultRecommendationLimit
	}

	ids, err := h.views.MostViewedProducts(ctx, q.UserID, q.Limit)
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("user_id", q.UserID).Msg("View history unavailable, falling back to trending")
		ids = nil
	}
	if len(ids) == 0 {
		return h.trending.Handle(ctx, TrendingQuery{Limit: q.Limit})
	}

	products, err := h.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve recommendations: %w", err)
	}

	// Preserve most-viewed order; FindByIDs makes no order promise.
	byID := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	if len(ordered) == 0 {
		return h.trending.Handle(ctx, TrendingQuery{Limit: q.Limit})
	}
	if len(ordered) > q.Limit {
		ordered = ordered[:q.Limit]
	}
	return ordered, nil
}
