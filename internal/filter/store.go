// Package filter holds the listing filter: the category taxonomy, the current selection and its
// mirror in the location query string.
package filter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

// TaxonomySource fetches the category tree.
type TaxonomySource interface {
	Categories(ctx context.Context) ([]shopapi.Category, error)
}

type Params struct {
	Taxonomy TaxonomySource
	Location Location
	Logger   *logger.Logger
}

type Store struct {
	mu         sync.Mutex
	selection  Selection
	categories []shopapi.Category
	taxonomy   TaxonomySource
	location   Location
	logg       *logger.Logger
}

func NewStore(p Params) (*Store, error) {
	if p.Taxonomy == nil {
		return nil, fmt.Errorf("taxonomy source required")
	}
	location := p.Location
	if location == nil {
		loc, err := NewURLLocation("/")
		if err != nil {
			return nil, err
		}
		location = loc
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		selection: DefaultSelection(),
		taxonomy:  p.Taxonomy,
		location:  location,
		logg:      logg,
	}, nil
}

// Init fetches the taxonomy once and adopts the selection encoded in the location.
// A failed fetch leaves the taxonomy empty; filtering still works.
func (s *Store) Init(ctx context.Context) {
	categories, err := s.taxonomy.Categories(ctx)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "fetching categories failed")
		categories = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.selection = SelectionFromQuery(s.location.Query())
	s.syncLocation()
}

// SetCategory selects a category and resets the subcategory and search term.
func (s *Store) SetCategory(name string) {
	s.mutate(func(sel *Selection) {
		*sel = Selection{Category: name}
	})
}

func (s *Store) SetSubcategory(name string) {
	s.mutate(func(sel *Selection) {
		sel.Subcategory = name
	})
}

func (s *Store) SetSearchTerm(term string) {
	s.mutate(func(sel *Selection) {
		sel.Search = term
	})
}

// Reset returns to the unfiltered listing.
func (s *Store) Reset() {
	s.mutate(func(sel *Selection) {
		*sel = DefaultSelection()
	})
}

// Select replaces the whole selection at once.
func (s *Store) Select(next Selection) {
	s.mutate(func(sel *Selection) {
		*sel = next
	})
}

func (s *Store) mutate(fn func(*Selection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.selection)
	s.selection = s.selection.normalized()
	s.syncLocation()
}

// syncLocation is the single store-to-location sync. Callers hold s.mu.
func (s *Store) syncLocation() {
	s.location.Replace(s.selection.Query())
}

func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Categories returns the taxonomy in server order.
func (s *Store) Categories() []shopapi.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shopapi.Category(nil), s.categories...)
}

// Subcategories lists the subcategories of the named category, matched case-insensitively.
func (s *Store) Subcategories(category string) []shopapi.Subcategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, category) {
			return append([]shopapi.Subcategory(nil), c.Subcategories...)
		}
	}
	return nil
}

// Filter applies the current selection to products.
func (s *Store) Filter(products []shopapi.Product) []shopapi.Product {
	return Apply(products, s.Selection())
}
