package domain

import (
	"fmt"
	"sort"
)

// FacetEntry is one value of a facet dimension with its candidate count.
type FacetEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets groups the per-dimension counts computed over the full filtered
// candidate set, never over a single page.
type Facets struct {
	Categories []FacetEntry `json:"categories"`
	Colors     []FacetEntry `json:"colors"`
	Price      []FacetEntry `json:"price"`
	Features   []FacetEntry `json:"features"`
}

// Price bucket boundaries. A price >= the last boundary (or below zero)
// falls into the "Other" bucket.
var priceBucketBounds = []float64{0, 100, 500, 1000, 2000, 5000}

const priceBucketOther = "Other"

// ComputeFacets tallies category, color, feature and price-bucket counts
// over the candidate set. A product with N colors contributes to N color
// buckets; same for features. All facets are ordered by count descending
// with a deterministic tie-break.
func ComputeFacets(products []Product) Facets {
	categories := make(map[string]int)
	colors := make(map[string]int)
	features := make(map[string]int)
	priceBuckets := make([]int, len(priceBucketBounds))

	for i := range products {
		p := &products[i]
		if p.Category != "" {
			categories[p.Category]++
		}
		for _, c := range p.Colors {
			colors[c.Name]++
		}
		for _, f := range p.Features {
			features[f]++
		}
		priceBuckets[priceBucketIndex(p.Price)]++
	}

	return Facets{
		Categories: facetEntries(categories),
		Colors:     facetEntries(colors),
		Price:      priceFacetEntries(priceBuckets),
		Features:   facetEntries(features),
	}
}

// priceBucketIndex maps a price onto its bucket. Index len(bounds)-1 is the
// "Other" bucket.
func priceBucketIndex(price float64) int {
	last := len(priceBucketBounds) - 1
	if price < priceBucketBounds[0] || price >= priceBucketBounds[last] {
		return last
	}
	for i := last - 1; i >= 0; i-- {
		if price >= priceBucketBounds[i] {
			return i
		}
	}
	return last
}

func facetEntries(counts map[string]int) []FacetEntry {
	entries := make([]FacetEntry, 0, len(counts))
	for value, count := range counts {
		entries = append(entries, FacetEntry{Value: value, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	return entries
}

// priceFacetEntries always emits every bucket, including empty ones, so
// clients can render the full price histogram. Ordered count descending,
// ties keep boundary order.
func priceFacetEntries(buckets []int) []FacetEntry {
	entries := make([]FacetEntry, 0, len(buckets))
	for i, count := range buckets {
		entries = append(entries, FacetEntry{Value: priceBucketLabel(i), Count: count})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func priceBucketLabel(index int) string {
	if index >= len(priceBucketBounds)-1 {
		return priceBucketOther
	}
	return fmt.Sprintf("%.0f-%.0f", priceBucketBounds[index], priceBucketBounds[index+1])
}
