//go:build wireinject
// +build wireinject

package activity

import (
	"github.com/google/wire"

	"github.com/tair/catalog-search/internal/activity/delivery/http"
	"github.com/tair/catalog-search/internal/activity/domain"
	"github.com/tair/catalog-search/internal/activity/usecase/command"
	"github.com/tair/catalog-search/internal/activity/usecase/query"
)

// Wire sets
var UsecaseSet = wire.NewSet(
	command.NewTrackActivityHandler,
	command.NewUpdatePreferencesHandler,
	query.NewGetPreferencesHandler,
	query.NewActivityReportHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies. The
// repository, catalog lookup and publisher are shared process-wide, so they
// are passed in rather than constructed here.
func InitializeHTTPHandler(repo domain.Repository, catalog domain.CatalogLookup, publisher command.EventPublisher) (*http.ActivityHandler, error) {
	wire.Build(
		UsecaseSet,
		http.NewActivityHandlerWithDI,
	)
	return nil, nil
}
