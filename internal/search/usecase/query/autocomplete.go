package query

import (
	"context"
	"strings"

	"github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/pkg/logger"
)

const (
	minAutocompleteLength  = 2
	defaultSuggestionLimit = 5
)

// AutocompleteQuery represents an autocomplete request.
type AutocompleteQuery struct {
	Query string
	Limit int
}

// Suggestion is a lightweight product projection for autocomplete results.
type Suggestion struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Thumbnail string `json:"thumbnail"`
}

// AutocompleteHandler matches partial queries against product names and
// categories, independent of the main filter pipeline.
type AutocompleteHandler struct {
	repo domain.ProductRepository
}

// NewAutocompleteHandler creates a new autocomplete handler
func NewAutocompleteHandler(repo domain.ProductRepository) *AutocompleteHandler {
	return &AutocompleteHandler{repo: repo}
}

// Handle returns up to Limit suggestions in catalog order. Queries shorter
// than two characters yield an empty list, not an error.
func (h *AutocompleteHandler) Handle(ctx context.Context, q AutocompleteQuery) ([]Suggestion, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	if len(needle) < minAutocompleteLength {
		return []Suggestion{}, nil
	}
	if q.Limit < 1 {
		q.Limit = defaultSuggestionLimit
	}

	products, err := h.repo.FindAll(ctx)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Autocomplete catalog lookup failed")
		return []Suggestion{}, nil
	}

	suggestions := make([]Suggestion, 0, q.Limit)
	for i := range products {
		p := &products[i]
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Thumbnail: p.Thumbnail,
		})
		if len(suggestions) >= q.Limit {
			break
		}
	}
	return suggestions, nil
}
