package middleware

import (
	"time"

	"github.com/flexprice/milkbill/internal/config"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/gin-gonic/gin"
	goCache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// idleBucketTTL is how long a client bucket survives without requests
	idleBucketTTL       = 10 * time.Minute
	bucketSweepInterval = time.Minute
)

// clientLimiter hands out one token bucket per client key. Buckets idle for
// longer than the TTL are swept, so the set stays bounded by recent clients.
type clientLimiter struct {
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	buckets *goCache.Cache
}

func newClientLimiter(perSecond float64, burst int, ttl, sweep time.Duration) *clientLimiter {
	return &clientLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     ttl,
		buckets: goCache.New(ttl, sweep),
	}
}

func (l *clientLimiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		b := v.(*rate.Limiter)
		// refresh the idle deadline
		l.buckets.Set(key, b, l.ttl)
		return b
	}

	b := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, b, l.ttl); err != nil {
		// another request created it first
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return b
}

func (l *clientLimiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// RateLimitMiddleware throttles document generation per client IP. A zero
// rate disables it.
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if cfg.Server.PDFRatePerSecond <= 0 {
		return passThrough
	}

	burst := cfg.Server.PDFRateBurst
	if burst < 1 {
		burst = 1
	}
	limiter := newClientLimiter(cfg.Server.PDFRatePerSecond, burst, idleBucketTTL, bucketSweepInterval)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many document requests, please retry shortly").
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
