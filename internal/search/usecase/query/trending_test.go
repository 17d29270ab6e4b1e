package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-search/internal/search/domain"
)

func TestTrending_RequiresMinimumReviews(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Name: "Fresh", Rating: 5.0, NumReviews: 1, Stock: 1},
		domain.Product{ID: 2, Name: "Proven", Rating: 4.2, NumReviews: 20, Stock: 1},
	)
	handler := NewTrendingHandler(repo)

	trending, err := handler.Handle(context.Background(), TrendingQuery{})

	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, uint(2), trending[0].ID)
}

func TestTrending_OrderedByRatingThenReviews(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Rating: 4.5, NumReviews: 10, Stock: 1},
		domain.Product{ID: 2, Rating: 4.8, NumReviews: 5, Stock: 1},
		domain.Product{ID: 3, Rating: 4.5, NumReviews: 50, Stock: 1},
	)
	handler := NewTrendingHandler(repo)

	trending, err := handler.Handle(context.Background(), TrendingQuery{})

	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, uint(2), trending[0].ID)
	assert.Equal(t, uint(3), trending[1].ID)
	assert.Equal(t, uint(1), trending[2].ID)
}

func TestTrending_RespectsLimit(t *testing.T) {
	products := make([]domain.Product, 12)
	for i := range products {
		products[i] = domain.Product{ID: uint(i + 1), Rating: 4.0, NumReviews: 10, Stock: 1}
	}
	handler := NewTrendingHandler(seededRepo(products...))

	trending, err := handler.Handle(context.Background(), TrendingQuery{})
	require.NoError(t, err)
	assert.Len(t, trending, 8)

	trending, err = handler.Handle(context.Background(), TrendingQuery{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, trending, 3)
}

func TestTrending_DegradesToEmptyOnFailure(t *testing.T) {
	handler := NewTrendingHandler(failingRepository{})

	trending, err := handler.Handle(context.Background(), TrendingQuery{})

	require.NoError(t, err)
	assert.Empty(t, trending)
}
