package middlewares

import (
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles submissions per client IP with a token bucket.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	log      *zap.Logger
	now      func() time.Time
}

var errSubmissionRateExceeded = errors.New("submission rate exceeded")

func NewRateLimiter(perMinute, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		log:      logger,
		now:      time.Now,
	}
}

func (r *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip := clientIP(req)
		limiter := r.visitorLimiter(ip)

		reservation := limiter.ReserveN(r.now(), 1)
		if delay := reservation.DelayFrom(r.now()); delay > 0 {
			reservation.CancelAt(r.now())

			r.log.Warn("RateLimiter.Limit rejected submission",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(req.Context())),
				zap.String(constvars.LoggingRemoteAddrKey, ip),
				zap.Duration(constvars.LoggingDurationKey, delay),
			)
			w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			utils.BuildErrorResponse(r.log, w, exceptions.ErrTooManyRequests(errSubmissionRateExceeded))
			return
		}

		next.ServeHTTP(w, req)
	})
}

// Cleanup drops visitors not seen for longer than idleTTL.
func (r *RateLimiter) Cleanup(idleTTL time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idleTTL)
	removed := 0
	for ip, v := range r.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(r.visitors, ip)
			removed++
		}
	}
	return removed
}
