package query

import (
	"context"
	"fmt"

	"github.com/tair/catalog-search/internal/search/domain"
)

const (
	defaultPageSize = 20
)

// SearchProductsQuery represents a catalog search request.
type SearchProductsQuery struct {
	Query             string
	Category          string
	MinPrice          *float64
	MaxPrice          *float64
	Colors            []string
	Features          []string
	Sort              string
	Page              int
	PageSize          int
	IncludeOutOfStock bool
}

// SearchResult is the merged search response: one ranked page plus facet
// counts computed over the full candidate set.
type SearchResult struct {
	Products   []domain.Product `json:"products"`
	TotalCount int              `json:"totalCount"`
	Facets     domain.Facets    `json:"facets"`
	Pages      int              `json:"pages"`
	Page       int              `json:"page"`
}

// SearchProductsHandler handles the full search pipeline: filter, retrieve,
// rank, facet, paginate.
type SearchProductsHandler struct {
	repo domain.ProductRepository
}

// NewSearchProductsHandler creates a new search handler
func NewSearchProductsHandler(repo domain.ProductRepository) *SearchProductsHandler {
	return &SearchProductsHandler{repo: repo}
}

// Handle executes a search. Catalog failures propagate unchanged; no
// partial result is ever returned.
func (h *SearchProductsHandler) Handle(ctx context.Context, q SearchProductsQuery) (*SearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.Sort == "" {
		q.Sort = domain.SortRelevance
	}

	filter := domain.Filter{
		Query:             q.Query,
		Category:          q.Category,
		MinPrice:          q.MinPrice,
		MaxPrice:          q.MaxPrice,
		Colors:            q.Colors,
		Features:          q.Features,
		IncludeOutOfStock: q.IncludeOutOfStock,
	}

	candidates, err := h.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: search canceled: %v", domain.ErrDependency, err)
	}

	// Facets are computed over the whole candidate set before pagination.
	facets := domain.ComputeFacets(candidates)

	domain.SortProducts(candidates, q.Sort, q.Query)

	totalCount := len(candidates)
	page := domain.Paginate(candidates, q.Page, q.PageSize)

	return &SearchResult{
		Products:   page,
		TotalCount: totalCount,
		Facets:     facets,
		Pages:      domain.PageCount(totalCount, q.PageSize),
		Page:       q.Page,
	}, nil
}
