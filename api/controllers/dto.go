package controllers

import (
	"time"

	"github.com/angelmondragon/storefront/internal/devshop"
)

// Wire shapes emit prices as JSON numbers, matching what storefront clients send back at checkout.

type userDTO struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

type subcategoryDTO struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

type categoryDTO struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Subcategories []subcategoryDTO `json:"subcategories"`
}

type productDTO struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	InventoryCount  int      `json:"inventory_count"`
	ImageURL        string   `json:"image_url"`
	AvailableSizes  []string `json:"available_sizes"`
	AvailableColors []string `json:"available_colors"`
	Category        []string `json:"category"`
	Subcategory     string   `json:"subcategory"`
	SubcategoryID   *int     `json:"subcategory_id"`
	UserID          int      `json:"user_id"`
}

type orderItemDTO struct {
	ProductID       int     `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	Size            string  `json:"size"`
	Color           string  `json:"color"`
}

type orderDTO struct {
	ID              int            `json:"id"`
	UserID          int            `json:"user_id"`
	Status          string         `json:"status"`
	TotalAmount     float64        `json:"total_amount"`
	ShippingAddress string         `json:"shipping_address"`
	Items           []orderItemDTO `json:"items"`
	CreatedAt       string         `json:"created_at"`
}

func userFromModel(u devshop.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Address:   u.Address,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func categoriesFromModel(in []devshop.Category) []categoryDTO {
	out := make([]categoryDTO, 0, len(in))
	for _, c := range in {
		subs := make([]subcategoryDTO, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			subs = append(subs, subcategoryDTO{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID})
		}
		out = append(out, categoryDTO{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			Subcategories: subs,
		})
	}
	return out
}

func productFromModel(p devshop.Product) productDTO {
	return productDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price.InexactFloat64(),
		InventoryCount:  p.InventoryCount,
		ImageURL:        p.ImageURL,
		AvailableSizes:  nonNil(p.Sizes),
		AvailableColors: nonNil(p.Colors),
		Category:        nonNil(p.Categories),
		Subcategory:     p.Subcategory,
		SubcategoryID:   p.SubcategoryID,
		UserID:          p.UserID,
	}
}

func productsFromModel(in []devshop.Product) []productDTO {
	out := make([]productDTO, 0, len(in))
	for _, p := range in {
		out = append(out, productFromModel(p))
	}
	return out
}

func orderFromModel(o devshop.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDTO{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase.InexactFloat64(),
			Size:            it.Size,
			Color:           it.Color,
		})
	}
	return orderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount.InexactFloat64(),
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ordersFromModel(in []devshop.Order) []orderDTO {
	out := make([]orderDTO, 0, len(in))
	for _, o := range in {
		out = append(out, orderFromModel(o))
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
