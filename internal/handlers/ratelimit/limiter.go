package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/metrics"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter admits evaluation requests: a global token bucket, one bucket
// per client and a cap on evaluations running at the same time.
type RateLimiter struct {
	globalLimiter *rate.Limiter
	perClient     *xsync.MapOf[string, *clientLimiter]
	clientRate    rate.Limit
	clientBurst   int
	slots         *semaphore.Weighted
	trustProxy    bool
}

type Config struct {
	GlobalRPS     float64
	PerClientRPS  float64
	Burst         int
	MaxConcurrent int
	// TrustForwardedFor keys clients by X-Forwarded-For. Enable it only when
	// a proxy that appends to the header is the sole way in.
	TrustForwardedFor bool
}

func NewRateLimiter(cfg Config) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	globalBurst := max(int(cfg.GlobalRPS)*2, burst)

	rl := &RateLimiter{
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.GlobalRPS), globalBurst),
		perClient:     xsync.NewMapOf[string, *clientLimiter](),
		clientRate:    rate.Limit(cfg.PerClientRPS),
		clientBurst:   burst,
		trustProxy:    cfg.TrustForwardedFor,
	}
	if cfg.GlobalRPS <= 0 {
		rl.globalLimiter = rate.NewLimiter(rate.Inf, 0)
	}
	if cfg.PerClientRPS <= 0 {
		rl.clientRate = rate.Inf
	}
	if cfg.MaxConcurrent > 0 {
		rl.slots = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	return rl
}

func (rl *RateLimiter) clientLimiter(key string) *rate.Limiter {
	entry, _ := rl.perClient.LoadOrCompute(key, func() *clientLimiter {
		return &clientLimiter{limiter: rate.NewLimiter(rl.clientRate, rl.clientBurst)}
	})
	entry.lastSeen.Store(time.Now().UnixNano())
	return entry.limiter
}

// Acquire reports whether a request from client may start an evaluation.
// A true result must be paired with Release.
func (rl *RateLimiter) Acquire(client string) bool {
	if !rl.globalLimiter.Allow() || !rl.clientLimiter(client).Allow() {
		metrics.RateLimitHits.Inc()
		return false
	}
	if rl.slots != nil && !rl.slots.TryAcquire(1) {
		metrics.RateLimitHits.Inc()
		return false
	}
	metrics.InFlightEvaluations.Inc()
	return true
}

func (rl *RateLimiter) Release() {
	metrics.InFlightEvaluations.Dec()
	if rl.slots != nil {
		rl.slots.Release(1)
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Acquire(ClientKey(r, rl.trustProxy)) {
			response.WriteErrorFrom(w, errs.ErrRateLimited)
			return
		}
		defer rl.Release()

		next.ServeHTTP(w, r)
	})
}

// StartCleanup periodically forgets clients idle for longer than interval.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.evictIdle(now.Add(-interval))
			}
		}
	}()
}

func (rl *RateLimiter) evictIdle(before time.Time) {
	cutoff := before.UnixNano()
	rl.perClient.Range(func(key string, entry *clientLimiter) bool {
		if entry.lastSeen.Load() < cutoff {
			rl.perClient.Delete(key)
		}
		return true
	})
}

// ClientKey identifies the caller by its remote host. With trustProxy set it
// uses the last X-Forwarded-For hop instead, which is the address the proxy
// itself saw; earlier hops are client supplied.
func ClientKey(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
			hops := strings.Split(forwarded[len(forwarded)-1], ",")
			if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
				return last
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
