package filter

import (
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront/pkg/shopapi"
)

// AllCategories is the category value that disables category filtering.
const AllCategories = "All"

// Query parameter names used in shareable listing links.
const (
	ParamCategory    = "category"
	ParamSubcategory = "subcategory"
	ParamSearch      = "search"
)

// Selection is the current filter state. The zero value is normalized to the defaults.
type Selection struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Search      string `json:"search,omitempty"`
}

func DefaultSelection() Selection {
	return Selection{Category: AllCategories}
}

func (s Selection) normalized() Selection {
	s.Category = strings.TrimSpace(s.Category)
	if s.Category == "" {
		s.Category = AllCategories
	}
	s.Subcategory = strings.TrimSpace(s.Subcategory)
	return s
}

// IsDefault reports whether no filter is active.
func (s Selection) IsDefault() bool {
	return s.normalized() == DefaultSelection()
}

// Query encodes the selection, omitting parameters at their default values.
func (s Selection) Query() url.Values {
	s = s.normalized()
	values := url.Values{}
	if s.Category != AllCategories {
		values.Set(ParamCategory, s.Category)
	}
	if s.Subcategory != "" {
		values.Set(ParamSubcategory, s.Subcategory)
	}
	if s.Search != "" {
		values.Set(ParamSearch, s.Search)
	}
	return values
}

// SelectionFromQuery is the inverse of Query.
func SelectionFromQuery(values url.Values) Selection {
	return Selection{
		Category:    values.Get(ParamCategory),
		Subcategory: values.Get(ParamSubcategory),
		Search:      values.Get(ParamSearch),
	}.normalized()
}

// ProductQuery narrows the backend listing the same way the selection narrows it locally.
func (s Selection) ProductQuery() shopapi.ProductQuery {
	s = s.normalized()
	q := shopapi.ProductQuery{Subcategory: s.Subcategory, Search: s.Search}
	if s.Category != AllCategories {
		q.Category = s.Category
	}
	return q
}

// Matches applies the category, subcategory and search predicates; all must hold.
func (s Selection) Matches(p shopapi.Product) bool {
	s = s.normalized()
	if s.Category != AllCategories && !p.Category.Contains(s.Category) {
		return false
	}
	if s.Subcategory != "" && p.Subcategory != s.Subcategory {
		return false
	}
	if s.Search != "" && !strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(s.Search)) {
		return false
	}
	return true
}

// Apply deduplicates products by id and keeps those matching sel. A repeated id keeps the
// position of its first occurrence and the data of its last.
func Apply(products []shopapi.Product, sel Selection) []shopapi.Product {
	index := make(map[int]int, len(products))
	unique := make([]shopapi.Product, 0, len(products))
	for _, p := range products {
		if i, ok := index[p.ID]; ok {
			unique[i] = p
			continue
		}
		index[p.ID] = len(unique)
		unique = append(unique, p)
	}

	out := make([]shopapi.Product, 0, len(unique))
	for _, p := range unique {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
