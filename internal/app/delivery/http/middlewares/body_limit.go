package middlewares

import (
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"net/http"
)

// BodyLimit caps the request body at the configured size. Bodies that declare
// a larger Content-Length are rejected up front; chunked bodies fail on read.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	limitInMegabyte := m.InternalConfig.App.RequestBodyLimitInMegabyte
	limit := int64(limitInMegabyte) << 20
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > limit {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRequestBodyTooLarge(limitInMegabyte))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
