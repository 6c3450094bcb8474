package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/cors"
)

// CORS builds the go-chi/cors handler from CORS_ALLOWED_ORIGINS (comma
// separated, "*" by default), the same environment-variable-driven
// construction the teacher's gateway CORS wiring uses.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(corsOptions())
}

// corsOptions reads CORS_ALLOWED_ORIGINS from the environment,
// defaulting to "*" when unset.
func corsOptions() cors.Options {
	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}
