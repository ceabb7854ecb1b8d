package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/tenderdesk/rfp-analyzer/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, falling back
// to one generated by chi or a fresh UUID, and injects it into the request
// context so every layer logs the same id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
