package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/devshop"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func Categories(shop Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, categoriesFromModel(shop.Categories()))
	}
}

// Products lists the catalog narrowed by the category, subcategory and search query parameters.
func Products(shop Shop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := devshop.ProductFilter{
			Category:    strings.TrimSpace(q.Get("category")),
			Subcategory: strings.TrimSpace(q.Get("subcategory")),
			Search:      strings.TrimSpace(q.Get("search")),
		}
		responses.WriteSuccess(w, productsFromModel(shop.Products(filter)))
	}
}

func Product(shop Shop, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := shop.Product(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productFromModel(product))
	}
}
