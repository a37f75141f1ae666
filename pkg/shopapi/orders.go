package shopapi

import (
	"context"
	"errors"
	"net/http"
)

// CreateOrder submits a checkout and returns the created order. An accepted order whose
// body cannot be read returns a nil order and no error.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, call{operation: "create_order", method: http.MethodPost, path: "/orders", body: req, fallback: "Checkout failed"}, &order); err != nil {
		if errors.Is(err, errUnreadableBody) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Orders returns the order history of the signed-in user.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, call{operation: "orders", method: http.MethodGet, path: "/orders", fallback: "Failed to load orders"}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
