package middleware

import (
	"net/http"

	"cms-backend/internal/config"
	"github.com/rs/cors"
)

// NewCORS builds the CORS layer from the configured origins. Credentials stay
// enabled because the dashboard sends its bearer token on every call, and
// Content-Disposition is exposed so receipt downloads keep their filenames.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CorsAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
