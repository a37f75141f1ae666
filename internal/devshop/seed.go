package devshop

import (
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

const placeholderImage = "https://via.placeholder.com/300x400"

// Seed loads the demo catalog: two accounts, three categories, three products and one delivered order.
// Both accounts use the password "password123".
func (s *Shop) Seed() error {
	admin, err := s.CreateUser(NewUser{Username: "admin", Email: "admin@stylish.com", Password: "password123", Address: "123 Main St, Anytown, USA"})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	customer, err := s.CreateUser(NewUser{Username: "customer1", Email: "customer1@example.com", Password: "password123", Address: "456 Oak St, Anytown, USA"})
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = []Category{
		{ID: 1, Name: "All", Description: "All clothing items"},
		{ID: 2, Name: "Tops", Description: "Shirts, T-shirts, and Jackets", Subcategories: []Subcategory{
			{ID: 1, Name: "T-Shirts", CategoryID: 2},
			{ID: 2, Name: "Athletic", CategoryID: 2},
		}},
		{ID: 3, Name: "Bottoms", Description: "Pants, shorts, and Sweats", Subcategories: []Subcategory{
			{ID: 3, Name: "Sweats", CategoryID: 3},
		}},
	}

	tees, athletic, sweats := 1, 2, 3
	s.products = []Product{
		{
			ID:             1,
			Name:           "Classic White T-Shirt",
			Description:    "Premium cotton t-shirt with a classic fit. Perfect for any casual occasion.",
			Price:          decimal.RequireFromString("29.99"),
			InventoryCount: 50,
			ImageURL:       placeholderImage,
			Sizes:          []string{"S", "M", "L", "XL"},
			Colors:         []string{"White", "Black", "Navy", "Gray"},
			Categories:     []string{"All", "Tops"},
			Subcategory:    "T-Shirts",
			SubcategoryID:  &tees,
			UserID:         admin.ID,
		},
		{
			ID:             2,
			Name:           "Athletic Cotton Sweats",
			Description:    "Comfortable slim fit jeans made with stretch denim. Perfect for everyday wear.",
			Price:          decimal.RequireFromString("49.99"),
			InventoryCount: 35,
			ImageURL:       placeholderImage,
			Sizes:          []string{"30", "32", "34", "36"},
			Colors:         []string{"Blue", "Black", "Gray"},
			Categories:     []string{"All", "Bottoms"},
			Subcategory:    "Sweats",
			SubcategoryID:  &sweats,
			UserID:         admin.ID,
		},
		{
			ID:             3,
			Name:           "Athletic workout shirt",
			Description:    "Lightweight button-down shirt made from 100% cotton. Great for casual or semi-formal occasions.",
			Price:          decimal.RequireFromString("39.99"),
			InventoryCount: 25,
			ImageURL:       placeholderImage,
			Sizes:          []string{"S", "M", "L", "XL"},
			Colors:         []string{"White", "Blue", "Pink"},
			Categories:     []string{"All", "Tops"},
			Subcategory:    "Athletic",
			SubcategoryID:  &athletic,
			UserID:         admin.ID,
		},
	}

	s.orders = append(s.orders, Order{
		ID:              s.nextOrder,
		UserID:          customer.ID,
		Status:          enums.OrderStatusDelivered,
		TotalAmount:     decimal.RequireFromString("109.97"),
		ShippingAddress: customer.Address,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("29.99"), Size: "M", Color: "White"},
			{ProductID: 2, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("49.99"), Size: "32", Color: "Blue"},
		},
		CreatedAt: s.now().Add(-72 * time.Hour).UTC(),
	})
	s.nextOrder++
	return nil
}
