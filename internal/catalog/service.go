// Package catalog serves the product listing and detail views.
package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/internal/filter"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

type productAPI interface {
	Products(ctx context.Context, q shopapi.ProductQuery) ([]shopapi.Product, error)
	Product(ctx context.Context, id int) (*shopapi.Product, error)
}

// Service loads products for the listing and detail views.
type Service struct {
	api  productAPI
	logg *logger.Logger
}

func NewService(api productAPI, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("product api required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{api: api, logg: logg}, nil
}

// List asks the backend for sel and filters the response locally, since backends may ignore
// some parameters or return the same product more than once.
func (s *Service) List(ctx context.Context, sel filter.Selection) ([]shopapi.Product, error) {
	products, err := s.api.Products(ctx, sel.ProductQuery())
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "loading products failed")
		return nil, err
	}
	return filter.Apply(products, sel), nil
}

func (s *Service) Get(ctx context.Context, id int) (*shopapi.Product, error) {
	product, err := s.api.Product(ctx, id)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
