package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/storefront/pkg/shopapi"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local frontend
}

// CORS returns middleware that lets the configured frontends call the API with cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", shopapi.RequestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{shopapi.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
