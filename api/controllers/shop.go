package controllers

import (
	"context"

	"github.com/angelmondragon/storefront/internal/devshop"
)

// Shop is the backend state the handlers read and mutate.
type Shop interface {
	Authenticate(username, password string) (devshop.User, error)
	User(id int) (devshop.User, error)
	CreateUser(in devshop.NewUser) (devshop.User, error)
	UpdateUser(id int, patch devshop.UserPatch) (devshop.User, error)
	Categories() []devshop.Category
	Products(f devshop.ProductFilter) []devshop.Product
	Product(id int) (devshop.Product, error)
	CreateOrder(userID int, in devshop.NewOrder) (devshop.Order, error)
	Orders(userID int) []devshop.Order
}

// Sessions tracks which issued session tokens are still live.
type Sessions interface {
	Open(ctx context.Context, accessID string, userID int) error
	Revoke(ctx context.Context, accessID string) error
}
