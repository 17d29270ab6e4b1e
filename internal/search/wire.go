//go:build wireinject
// +build wireinject

package search

import (
	"github.com/google/wire"

	"github.com/tair/catalog-search/internal/search/cache"
	"github.com/tair/catalog-search/internal/search/delivery/http"
	"github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/internal/search/usecase/query"
)

// Wire sets
var QuerySet = wire.NewSet(
	query.NewSearchProductsHandler,
	query.NewAutocompleteHandler,
	query.NewSimilarProductsHandler,
	query.NewTrendingHandler,
	query.NewRecommendationsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies. The
// repository is shared with the activity service, so it is passed in rather
// than constructed here.
func InitializeHTTPHandler(repo domain.ProductRepository, views query.ViewHistory, resultCache *cache.ResultCache) (*http.SearchHandler, error) {
	wire.Build(
		QuerySet,
		http.NewSearchHandlerWithDI,
	)
	return nil, nil
}
