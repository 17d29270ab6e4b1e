package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/catalog-search/internal/activity/domain"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
)

// MostViewedHandler exposes a user's most-viewed product ids to the
// recommendation engine. A user without a log simply has no signal.
type MostViewedHandler struct {
	repo domain.Repository
}

// NewMostViewedHandler creates a new most viewed handler
func NewMostViewedHandler(repo domain.Repository) *MostViewedHandler {
	return &MostViewedHandler{repo: repo}
}

// MostViewedProducts returns product ids ranked by view count, most recent
// view breaking ties. Absence of a log yields an empty list, not an error.
func (h *MostViewedHandler) MostViewedProducts(ctx context.Context, userID uint, limit int) ([]uint, error) {
	log, err := h.repo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, searchdomain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("most viewed products: %w", err)
	}
	return log.MostViewedProducts(limit), nil
}
