package adminhandlers

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"golang.org/x/time/rate"
)

const (
	pruneAbove = 500
	idleTTL    = 10 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginThrottle limits login attempts per client IP with a token bucket.
// Clients idle longer than idleTTL are forgotten once more than pruneAbove
// are tracked.
type LoginThrottle struct {
	mu      sync.Mutex
	clients map[string]*client
	every   rate.Limit
	burst   int
	now     func() time.Time
}

// NewLoginThrottle allows burst attempts per IP, refilled at every.
func NewLoginThrottle(every rate.Limit, burst int) *LoginThrottle {
	return &LoginThrottle{
		clients: make(map[string]*client),
		every:   every,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether ip may attempt a login now. When it may not, the
// returned duration is how long until the next attempt is allowed.
func (t *LoginThrottle) Allow(ip string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if len(t.clients) > pruneAbove {
		t.prune(now)
	}

	c, ok := t.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(t.every, t.burst)}
		t.clients[ip] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (t *LoginThrottle) prune(now time.Time) {
	cutoff := now.Add(-idleTTL)
	for ip, c := range t.clients {
		if c.lastSeen.Before(cutoff) {
			delete(t.clients, ip)
		}
	}
}

func (t *LoginThrottle) tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// ThrottleMiddleware rejects requests from clients over their login budget
// with 429 and a Retry-After header.
func ThrottleMiddleware(throttle *LoginThrottle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if ok, wait := throttle.Allow(ip); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				httpx.WriteJSON(w, http.StatusTooManyRequests, httpx.ErrorResponse{
					Error: "too many login attempts",
					Code:  "rate_limited",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware lets the listed browser origins call the API with the admin
// cookie. Other origins get no CORS headers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && origins[origin]
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			}

			if r.Method == http.MethodOptions && allowed {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
