// Package httpmiddleware provides chi-compatible middleware for the ops HTTP
// server: correlation IDs, request logging, CORS and security headers.
package httpmiddleware

import (
	"net/http"

	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/lewisedginton/cosmic_chatbot/pkg/prefixed_uuid"
)

// CorrelationID middleware ensures every request has a unique correlation ID.
// Always generates a new correlation ID and ignores any client-provided
// correlation headers, so we control our own IDs. Also enriches the request
// context with the correlation ID.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := prefixed_uuid.New("req").String()
			r.Header.Set("X-Correlation-ID", correlationID)

			ctx := logger.WithCorrelationIDContext(r.Context(), correlationID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
