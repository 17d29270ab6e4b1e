package query

import (
	"context"
	"sort"

	"github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/pkg/logger"
)

const (
	defaultTrendingLimit = 8

	// Products with fewer reviews than this carry too little signal and
	// would let a single five-star review dominate the ranking.
	minTrendingReviews = 5
)

// TrendingQuery represents a trending-products request.
type TrendingQuery struct {
	Limit int
}

// TrendingHandler ranks well-reviewed products by rating. It doubles as the
// universal fallback for personalization when a user has no signal.
type TrendingHandler struct {
	repo domain.ProductRepository
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(repo domain.ProductRepository) *TrendingHandler {
	return &TrendingHandler{repo: repo}
}

// Handle returns up to Limit trending products. Catalog failures degrade to
// an empty list.
func (h *TrendingHandler) Handle(ctx context.Context, q TrendingQuery) ([]domain.Product, error) {
	if q.Limit < 1 {
		q.Limit = defaultTrendingLimit
	}

	products, err := h.repo.FindAll(ctx)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Trending catalog lookup failed")
		return []domain.Product{}, nil
	}

	trending := products[:0]
	for i := range products {
		if products[i].NumReviews >= minTrendingReviews {
			trending = append(trending, products[i])
		}
	}

	sort.SliceStable(trending, func(i, j int) bool {
		if trending[i].Rating != trending[j].Rating {
			return trending[i].Rating > trending[j].Rating
		}
		return trending[i].NumReviews > trending[j].NumReviews
	})

	if len(trending) > q.Limit {
		trending = trending[:q.Limit]
	}
	return trending, nil
}
