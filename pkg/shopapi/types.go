package shopapi

import (
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// User is the account returned by the session endpoints.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Product is a catalog entry as served by the backend.
type Product struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	InventoryCount  int              `json:"inventory_count"`
	ImageURL        string           `json:"image_url"`
	AvailableSizes  types.StringList `json:"available_sizes"`
	AvailableColors types.StringList `json:"available_colors"`
	Category        types.StringList `json:"category"`
	Subcategory     string           `json:"subcategory"`
	SubcategoryID   *int             `json:"subcategory_id"`
	UserID          int              `json:"user_id"`
}

type Subcategory struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

// Category is one node of the read-only taxonomy. Subcategories keep server order.
type Category struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Subcategories []Subcategory `json:"subcategories"`
}

type OrderItem struct {
	ProductID       int             `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
}

// Order is the receipt the backend returns after checkout and in the order history.
type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"user_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=15"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address,omitempty" validate:"max=200"`
}

// UpdateUserRequest carries a partial profile update; nil fields are left untouched.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=15"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=50"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
}

// OrderItemRequest is one cart line snapshot sent at checkout.
type OrderItemRequest struct {
	ProductID       int     `json:"product_id" validate:"required,gt=0"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	PriceAtPurchase float64 `json:"price_at_purchase" validate:"gte=0"`
	Size            string  `json:"size"`
	Color           string  `json:"color"`
}

type CreateOrderRequest struct {
	TotalAmount     float64            `json:"total_amount" validate:"gte=0"`
	ShippingAddress string             `json:"shipping_address" validate:"required,max=200"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ProductQuery narrows GET /products; empty fields are omitted from the query string.
type ProductQuery struct {
	Category    string
	Subcategory string
	Search      string
}
