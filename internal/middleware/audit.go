package middleware

import (
	"net/http"

	"github.com/dangerclosesec/liaison/internal/audit"
)

// AuditMiddleware keeps the client address and user agent for audit rows
// written further down the request.
func AuditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(audit.WithRequest(r.Context(), r)))
	})
}
