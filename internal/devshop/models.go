package devshop

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           int
	Username     string
	Email        string
	Address      string
	PasswordHash string
	CreatedAt    time.Time
}

type Subcategory struct {
	ID         int
	Name       string
	CategoryID int
}

type Category struct {
	ID            int
	Name          string
	Description   string
	Subcategories []Subcategory
}

type Product struct {
	ID             int
	Name           string
	Description    string
	Price          decimal.Decimal
	InventoryCount int
	ImageURL       string
	Sizes          []string
	Colors         []string
	Categories     []string
	Subcategory    string
	SubcategoryID  *int
	UserID         int
}

type OrderItem struct {
	ProductID       int
	Quantity        int
	PriceAtPurchase decimal.Decimal
	Size            string
	Color           string
}

type Order struct {
	ID              int
	UserID          int
	Status          enums.OrderStatus
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Items           []OrderItem
	CreatedAt       time.Time
}

// NewUser is the registration input.
type NewUser struct {
	Username string
	Email    string
	Password string
	Address  string
}

// UserPatch is a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Address  *string
	Password *string
}

type NewOrder struct {
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Items           []OrderItem
}

// ProductFilter mirrors the listing query parameters.
type ProductFilter struct {
	Category    string
	Subcategory string
	Search      string
}
