package query

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-search/internal/search/domain"
)

// stubViews returns a fixed view history.
type stubViews struct {
	ids []uint
	err error
}

func (s stubViews) MostViewedProducts(ctx context.Context, userID uint, limit int) ([]uint, error) {
	return s.ids, s.err
}

func newRecommendationsHandler(repo domain.ProductRepository, views ViewHistory) *RecommendationsHandler {
	return NewRecommendationsHandler(repo, views, NewTrendingHandler(repo))
}

func TestRecommendations_OrderedByViewCount(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Name: "X", Stock: 1},
		domain.Product{ID: 2, Name: "Y", Stock: 1},
	)
	// User viewed X three times and Y once.
	handler := newRecommendationsHandler(repo, stubViews{ids: []uint{1, 2}})

	products, err := handler.Handle(context.Background(), RecommendationsQuery{UserID: 7})

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, uint(1), products[0].ID)
	assert.Equal(t, uint(2), products[1].ID)
}

func TestRecommendations_NoHistoryFallsBackToTrending(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Rating: 4.9, NumReviews: 30, Stock: 1},
		domain.Product{ID: 2, Rating: 4.1, NumReviews: 30, Stock: 1},
	)
	handler := newRecommendationsHandler(repo, stubViews{})

	products, err := handler.Handle(context.Background(), RecommendationsQuery{UserID: 7})

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, uint(1), products[0].ID)
}

func TestRecommendations_ViewHistoryFailureFallsBackToTrending(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Rating: 4.9, NumReviews: 30, Stock: 1},
	)
	handler := newRecommendationsHandler(repo, stubViews{err: fmt.Errorf("%w: store down", domain.ErrDependency)})

	products, err := handler.Handle(context.Background(), RecommendationsQuery{UserID: 7})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, uint(1), products[0].ID)
}

func TestRecommendations_StaleViewsFallBackToTrending(t *testing.T) {
	// Every viewed product has since left the catalog.
	repo := seededRepo(
		domain.Product{ID: 5, Rating: 4.9, NumReviews: 30, Stock: 1},
	)
	handler := newRecommendationsHandler(repo, stubViews{ids: []uint{100, 101}})

	products, err := handler.Handle(context.Background(), RecommendationsQuery{UserID: 7})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, uint(5), products[0].ID)
}

func TestRecommendations_CatalogFailurePropagates(t *testing.T) {
	handler := newRecommendationsHandler(failingRepository{}, stubViews{ids: []uint{1}})

	products, err := handler.Handle(context.Background(), RecommendationsQuery{UserID: 7})

	assert.Nil(t, products)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependency))
}

func TestRecommendations_RespectsLimit(t *testing.T) {
	products := make([]domain.Product, 10)
	ids := make([]uint, 10)
	for i := range products {
		products[i] = domain.Product{ID: uint(i + 1), Stock: 1}
		ids[i] = uint(i + 1)
	}
	handler := newRecommendationsHandler(seededRepo(products...), stubViews{ids: ids})

	recommended, err := handler.Handle(context.Background(), RecommendationsQuery{UserID: 7, Limit: 4})

	require.NoError(t, err)
	assert.Len(t, recommended, 4)
}
