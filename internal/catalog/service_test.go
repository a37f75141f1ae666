package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront/internal/filter"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/shopapi"
	"github.com/angelmondragon/storefront/pkg/types"
)

type stubProducts struct {
	products []shopapi.Product
	lastQ    shopapi.ProductQuery
	err      error
}

func (s *stubProducts) Products(_ context.Context, q shopapi.ProductQuery) ([]shopapi.Product, error) {
	s.lastQ = q
	return s.products, s.err
}

func (s *stubProducts) Product(_ context.Context, id int) (*shopapi.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
}

func TestListFiltersLocally(t *testing.T) {
	api := &stubProducts{products: []shopapi.Product{
		{ID: 1, Name: "Classic T-Shirt", Category: types.StringList{"All", "Tops"}},
		{ID: 2, Name: "Slim Jeans", Category: types.StringList{"All", "Bottoms"}},
		{ID: 1, Name: "Classic T-Shirt", Category: types.StringList{"All", "Tops"}},
	}}
	svc, err := NewService(api, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.List(context.Background(), filter.Selection{Category: "Tops"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected products %+v", got)
	}
	if api.lastQ.Category != "Tops" {
		t.Fatalf("expected category forwarded, got %+v", api.lastQ)
	}

	if _, err := svc.List(context.Background(), filter.DefaultSelection()); err != nil {
		t.Fatalf("list all: %v", err)
	}
	if api.lastQ.Category != "" {
		t.Fatalf("All must not be sent as a filter, got %+v", api.lastQ)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, err := NewService(&stubProducts{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.Get(context.Background(), 5)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if pkgerrors.UserMessage(err) != "product not found" {
		t.Fatalf("unexpected message %q", pkgerrors.UserMessage(err))
	}
}
