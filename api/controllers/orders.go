package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/devshop"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

// CreateOrder records the submitted cart for the signed-in user.
func CreateOrder(shop Shop, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body shopapi.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]devshop.OrderItem, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, devshop.OrderItem{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: decimal.NewFromFloat(it.PriceAtPurchase),
				Size:            it.Size,
				Color:           it.Color,
			})
		}

		userID := middleware.UserIDFromContext(r.Context())
		order, err := shop.CreateOrder(userID, devshop.NewOrder{
			TotalAmount:     decimal.NewFromFloat(body.TotalAmount),
			ShippingAddress: strings.TrimSpace(body.ShippingAddress),
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{"order_id": order.ID, "items": len(order.Items)})
			logg.Info(ctx, "order.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orderFromModel(order))
	}
}

func Orders(shop Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, ordersFromModel(shop.Orders(middleware.UserIDFromContext(r.Context()))))
	}
}
