package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthTokenMiddleware copies the bearer credential into the request context.
// An absent token is allowed: browsing and the cart work for guests, and the
// handlers that need auth (checkout, orders) reject an empty token themselves.
func AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		ctx := context.WithValue(r.Context(), "auth_token", token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getAuthToken(ctx context.Context) string {
	if token, ok := ctx.Value("auth_token").(string); ok {
		return token
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value("request_id").(string); ok {
		return requestID
	}
	return ""
}
