package query

import (
	"context"
	"errors"
	"sort"

	"github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/pkg/logger"
)

const defaultSimilarLimit = 4

// SimilarProductsQuery represents a similar-products request.
type SimilarProductsQuery struct {
	ProductID uint
	Limit     int
}

// SimilarProductsHandler scores same-category products by feature overlap
// with the source product. Availability is ignored here; similarity is about
// attributes, so out-of-stock candidates stay in.
type SimilarProductsHandler struct {
	repo domain.ProductRepository
}

// NewSimilarProductsHandler creates a new similar products handler
func NewSimilarProductsHandler(repo domain.ProductRepository) *SimilarProductsHandler {
	return &SimilarProductsHandler{repo: repo}
}

// Handle returns up to Limit similar products. An unresolvable product id
// and catalog failures both degrade to an empty list; this is a best-effort
// endpoint.
func (h *SimilarProductsHandler) Handle(ctx context.Context, q SimilarProductsQuery) ([]domain.Product, error) {
	if q.Limit < 1 {
		q.Limit = defaultSimilarLimit
	}

	source, err := h.repo.FindByID(ctx, q.ProductID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn(ctx).Err(err).Uint("product_id", q.ProductID).Msg("Similar products lookup failed")
		}
		return []domain.Product{}, nil
	}

	candidates, err := h.repo.FindByCategory(ctx, source.Category)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("category", source.Category).Msg("Similar products candidate query failed")
		return []domain.Product{}, nil
	}

	scored := candidates[:0]
	scores := make(map[uint]int, len(candidates))
	for i := range candidates {
		if candidates[i].ID == source.ID {
			continue
		}
		scores[candidates[i].ID] = featureOverlap(source, &candidates[i])
		scored = append(scored, candidates[i])
	}

	sort.SliceStable(scored, func(i, j int) bool {
		si, sj := scores[scored[i].ID], scores[scored[j].ID]
		if si != sj {
			return si > sj
		}
		return scored[i].Rating > scored[j].Rating
	})

	if len(scored) > q.Limit {
		scored = scored[:q.Limit]
	}
	return scored, nil
}

// featureOverlap counts the distinct features present in both products.
func featureOverlap(a, b *domain.Product) int {
	seen := make(map[string]struct{}, len(b.Features))
	overlap := 0
	for _, f := range b.Features {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		if a.HasFeature(f) {
			overlap++
		}
	}
	return overlap
}
