// Package orders serves the signed-in user's order history.
package orders

import (
	"context"
	"fmt"
	"sort"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

type historyAPI interface {
	Orders(ctx context.Context) ([]shopapi.Order, error)
}

type sessionReader interface {
	IsAuthenticated() bool
}

type Service struct {
	api     historyAPI
	session sessionReader
}

func NewService(api historyAPI, session sessionReader) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("orders api required")
	}
	if session == nil {
		return nil, fmt.Errorf("session required")
	}
	return &Service{api: api, session: session}, nil
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context) ([]shopapi.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "Not logged in")
	}
	orders, err := s.api.Orders(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}
