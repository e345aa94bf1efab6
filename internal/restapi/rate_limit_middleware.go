package restapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/utils"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware provides per-client rate limiting keyed by caller IP.
type RateLimitMiddleware struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rateLimit rate.Limit
	burstSize int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimitMiddleware allows requests per interval for each client, all of
// which may arrive in a burst. A negative count disables limiting; zero
// blocks every request.
func NewRateLimitMiddleware(requests int, interval time.Duration) func(http.Handler) http.Handler {
	return newRateLimiter(requests, interval).rateLimitHandler
}

func newRateLimiter(requests int, interval time.Duration) *RateLimitMiddleware {
	var limit rate.Limit
	switch {
	case requests < 0:
		limit = rate.Inf
	case requests == 0:
		limit = 0
	default:
		limit = rate.Every(interval / time.Duration(requests))
	}

	return &RateLimitMiddleware{
		limiters:  make(map[string]*clientLimiter),
		rateLimit: limit,
		burstSize: max(requests, 0),
		now:       time.Now,
	}
}

// getLimiter gets or creates the limiter for a client and drops limiters
// idle for longer than limiterIdleTTL.
func (rl *RateLimitMiddleware) getLimiter(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		for key, cl := range rl.limiters {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, key)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.limiters[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[client] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func (rl *RateLimitMiddleware) rateLimitHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rateLimit == rate.Inf {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(utils.ClientIP(r)).AllowN(rl.now(), 1) {
			rl.sendRateLimitExceeded(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	retryAfter := time.Hour
	if rl.rateLimit > 0 {
		retryAfter = time.Duration(float64(time.Second) / float64(rl.rateLimit))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	response := models.NewResponse(http.StatusTooManyRequests, nil, "Rate limit exceeded. Please try again later.")
	_ = json.NewEncoder(w).Encode(response)
}
