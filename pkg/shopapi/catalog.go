package shopapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, call{operation: "categories", method: http.MethodGet, path: "/categories", fallback: "Failed to load categories"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products lists the catalog, narrowed server-side by q.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	var products []Product
	req := call{
		operation: "products",
		method:    http.MethodGet,
		path:      "/products",
		query:     q.values(),
		fallback:  "Failed to load products",
	}
	if err := c.do(ctx, req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int) (*Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	var product Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, call{operation: "product", method: http.MethodGet, path: path, fallback: "Product not found"}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	if v := strings.TrimSpace(q.Category); v != "" {
		values.Set("category", v)
	}
	if v := strings.TrimSpace(q.Subcategory); v != "" {
		values.Set("subcategory", v)
	}
	if v := strings.TrimSpace(q.Search); v != "" {
		values.Set("search", v)
	}
	return values
}
