package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-search/internal/search/domain"
)

func TestSimilarProducts_RankedByFeatureOverlap(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Name: "P", Category: domain.CategoryIphone, Features: []string{"A", "B", "C"}, Stock: 1},
		domain.Product{ID: 2, Name: "Q", Category: domain.CategoryIphone, Features: []string{"B", "C", "D"}, Stock: 1},
		domain.Product{ID: 3, Name: "R", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 1},
	)
	handler := NewSimilarProductsHandler(repo)

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1})

	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, uint(2), similar[0].ID) // overlap 2
	assert.Equal(t, uint(3), similar[1].ID) // overlap 1
}

func TestSimilarProducts_ExcludesSourceAndOtherCategories(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Name: "Source", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 1},
		domain.Product{ID: 2, Name: "Same features, wrong category", Category: domain.CategoryIpad, Features: []string{"A"}, Stock: 1},
	)
	handler := NewSimilarProductsHandler(repo)

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1})

	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestSimilarProducts_IncludesOutOfStock(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Name: "Source", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 1},
		domain.Product{ID: 2, Name: "Sold out", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 0},
	)
	handler := NewSimilarProductsHandler(repo)

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1})

	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, uint(2), similar[0].ID)
}

func TestSimilarProducts_TiesBrokenByRating(t *testing.T) {
	repo := seededRepo(
		domain.Product{ID: 1, Name: "Source", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 1},
		domain.Product{ID: 2, Name: "Lower", Category: domain.CategoryIphone, Features: []string{"A"}, Rating: 4.0, Stock: 1},
		domain.Product{ID: 3, Name: "Higher", Category: domain.CategoryIphone, Features: []string{"A"}, Rating: 4.8, Stock: 1},
	)
	handler := NewSimilarProductsHandler(repo)

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1})

	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, uint(3), similar[0].ID)
}

func TestSimilarProducts_RespectsLimit(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Source", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 1},
	}
	for i := 2; i <= 8; i++ {
		products = append(products, domain.Product{
			ID: uint(i), Name: "Sibling", Category: domain.CategoryIphone, Features: []string{"A"}, Stock: 1,
		})
	}
	handler := NewSimilarProductsHandler(seededRepo(products...))

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1})
	require.NoError(t, err)
	assert.Len(t, similar, 4)

	similar, err = handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, similar, 2)
}

func TestSimilarProducts_UnknownProductYieldsEmpty(t *testing.T) {
	handler := NewSimilarProductsHandler(seededRepo())

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 42})

	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestSimilarProducts_DegradesToEmptyOnFailure(t *testing.T) {
	handler := NewSimilarProductsHandler(failingRepository{})

	similar, err := handler.Handle(context.Background(), SimilarProductsQuery{ProductID: 1})

	require.NoError(t, err)
	assert.Empty(t, similar)
}
