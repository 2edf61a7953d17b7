package middlewares

import (
	"context"
	"detection-service/internal/pkg/constvars"
	"net/http"

	"github.com/google/uuid"
)

// SessionIDMiddleware binds the request to a form session. The id comes from
// the X-Session-ID header, then the session_id query parameter. A new one is
// issued when neither is present and echoed back so the client can reuse it.
func (m *Middlewares) SessionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(constvars.HeaderXSessionID)
		if sessionID == "" {
			sessionID = r.URL.Query().Get(constvars.URLParamSessionID)
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_ID_KEY, sessionID)
		w.Header().Set(constvars.HeaderXSessionID, sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
