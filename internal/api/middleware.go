// Package api wires the report engine's collaborators (envelope store, rule
// catalog, projection engine, report store) behind a chi router, following
// the donor's per-service handler/router shape.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const correlationIDKey ctxKey = "correlationId"

// CorrelationID extracts the per-request correlation ID stashed by
// WithCorrelationID, or "" if none is present.
func CorrelationID(r *http.Request) string {
	if v, ok := r.Context().Value(correlationIDKey).(string); ok {
		return v
	}
	return ""
}

// WithCorrelationID stamps every request with a correlation ID (the
// caller's X-Correlation-Id header when present, otherwise a fresh UUID)
// and echoes it in the response header, so the envelope/catalog/store
// collaborators can be traced across a single project call.
func WithCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Correlation-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Correlation-Id", id)
		ctx := context.WithValue(r.Context(), correlationIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPIKey rejects requests missing a "Bearer <token>" Authorization
// header matching the configured static token. An empty configured token
// disables the check, for local/offline use.
func RequireAPIKey(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") || strings.TrimPrefix(authz, "Bearer ") != token {
				http.Error(w, `{"messageType":"Error","text":"missing or invalid Authorization header"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
