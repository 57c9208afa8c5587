package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/auth"
)

type contextKey string

const customerIDKey contextKey = "customer_id"

// CustomerIDFromContext returns the authenticated customer id placed by the
// auth middleware.
func CustomerIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(customerIDKey).(uint)
	return id, ok
}

// WithCustomerID returns a context carrying the given customer id. Used by
// tests and internal callers.
func WithCustomerID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, customerIDKey, id)
}

// Auth validates the bearer token and stores the customer identity in the
// request context.
func Auth(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := manager.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := WithCustomerID(r.Context(), claims.CustomerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
