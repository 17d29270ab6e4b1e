package domain

import (
	"sort"
	"strings"
)

// Sort modes for search results.
const (
	SortRelevance  = "relevance"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortNewest     = "newest"
	SortRating     = "rating"
	SortPopularity = "popularity"
)

// Relevance scoring weights. An exact full-name match must always outrank
// any partial match, hence the large exact bonus.
const (
	exactNameBonus    = 100.0
	nameTermWeight    = 5.0
	categoryWeight    = 3.0
	descriptionWeight = 1.0
)

// RelevanceScore computes a deterministic text-match score for a product
// against a free-text query. Terms are matched by case-insensitive
// containment, weighted by field. Returns 0 when nothing matches.
func RelevanceScore(p *Product, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	description := strings.ToLower(p.Description)

	var score float64
	if name == q {
		score += exactNameBonus
	}
	for _, term := range strings.Fields(q) {
		if strings.Contains(name, term) {
			score += nameTermWeight
		}
		if strings.Contains(category, term) {
			score += categoryWeight
		}
		if strings.Contains(description, term) {
			score += descriptionWeight
		}
	}
	return score
}

// SortProducts orders products in place according to the requested sort
// mode. The input is first normalized to id-ascending order so every mode
// starts from the same upstream order; all mode sorts are stable, so
// equal-key groups keep that order. Unrecognized modes keep id-ascending.
func SortProducts(products []Product, mode, query string) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})

	switch mode {
	case SortRelevance:
		if query != "" {
			scores := make(map[uint]float64, len(products))
			for i := range products {
				scores[products[i].ID] = RelevanceScore(&products[i], query)
			}
			sort.SliceStable(products, func(i, j int) bool {
				si, sj := scores[products[i].ID], scores[products[j].ID]
				if si != sj {
					return si > sj
				}
				return products[i].Rating > products[j].Rating
			})
		} else {
			sort.SliceStable(products, func(i, j int) bool {
				if products[i].Rating != products[j].Rating {
					return products[i].Rating > products[j].Rating
				}
				return products[i].NumReviews > products[j].NumReviews
			})
		}
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Rating != products[j].Rating {
				return products[i].Rating > products[j].Rating
			}
			return products[i].NumReviews > products[j].NumReviews
		})
	case SortPopularity:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].NumReviews != products[j].NumReviews {
				return products[i].NumReviews > products[j].NumReviews
			}
			return products[i].Rating > products[j].Rating
		})
	}
}

// Paginate slices a ranked product list into the requested page. Pages are
// 1-based; an out-of-range page yields an empty slice, never an error.
func Paginate(products []Product, page, pageSize int) []Product {
	skip := (page - 1) * pageSize
	if skip < 0 || skip >= len(products) {
		return []Product{}
	}
	end := skip + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[skip:end]
}

// PageCount returns the number of pages needed for totalCount items.
func PageCount(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
