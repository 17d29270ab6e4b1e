package domain

// Filter is the canonical predicate set applied to the catalog. A zero
// field means "no constraint" except IncludeOutOfStock, which defaults to
// filtering out-of-stock products away.
type Filter struct {
	Query             string
	Category          string
	MinPrice          *float64
	MaxPrice          *float64
	Colors            []string
	Features          []string
	IncludeOutOfStock bool
}

// Matches reports whether a product passes every predicate of the filter.
// Colors use OR semantics (any requested color suffices), features use AND
// semantics (every requested feature must be present).
func (f Filter) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if len(f.Colors) > 0 {
		matched := false
		for _, c := range f.Colors {
			if p.HasColor(c) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, feature := range f.Features {
		if !p.HasFeature(feature) {
			return false
		}
	}
	if !f.IncludeOutOfStock && !p.InStock() {
		return false
	}
	if f.Query != "" && RelevanceScore(p, f.Query) == 0 {
		return false
	}
	return true
}
