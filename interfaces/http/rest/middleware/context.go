package middleware

import (
	"net/http"

	"lineage/pkg/common"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestContext stores chi's request id and the start time in the shared context
// metadata so downstream calls can correlate with the inbound request
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := common.EnrichContext(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
