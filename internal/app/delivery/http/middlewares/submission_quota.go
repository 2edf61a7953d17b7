package middlewares

import (
	"context"
	"detection-service/internal/app/services/shared/ratelimiter"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

type resourceLimiter interface {
	ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error)
}

// SubmissionQuota limits submissions per client IP with a window shared by
// every replica. The request passes when the counter store is unreachable.
func (m *Middlewares) SubmissionQuota(limiter resourceLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := utils.GetRequestID(r.Context())
			ip := clientIP(r)

			out, err := limiter.ApplyResourceLimiter(r.Context(), &ratelimiter.ApplyResourceLimiterInput{
				ResourceName:      ip,
				LimiterGroupName:  constvars.DetectionSubmitLimitGroup,
				WindowDurationSec: 60,
				MaxQuota:          m.InternalConfig.Detection.SubmissionsPerMinute,
			})
			if err != nil {
				m.Log.Warn("Middlewares.SubmissionQuota limiter unavailable, letting request through",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !out.Allowed {
				m.Log.Warn("Middlewares.SubmissionQuota rejected submission",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingRemoteAddrKey, ip),
				)
				w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(out.RetryAfterSecs))
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(errSubmissionRateExceeded))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
