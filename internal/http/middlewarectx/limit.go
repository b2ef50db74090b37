package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
)

// NoticeTooManyRequests уведомление при превышении частоты запросов.
const NoticeTooManyRequests = "Too many attempts, please wait and try again."

// limiterIdleTTL через столько времени без запросов лимитер клиента удаляется.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	limiters  map[string]*clientLimiter
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		limit:    limit,
		burst:    burst,
		idle:     limiterIdleTTL,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// get возвращает лимитер клиента. Не чаще раза в idle удаляет лимитеры
// клиентов, которые не обращались дольше idle.
func (c *clientLimiters) get(client string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.idle {
		for key, l := range c.limiters {
			if now.Sub(l.lastSeen) >= c.idle {
				delete(c.limiters, key)
			}
		}
		c.lastSweep = now
	}

	l, ok := c.limiters[client]
	if !ok {
		l = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[client] = l
	}
	l.lastSeen = now
	return l.limiter
}

// RateLimitMiddleware ограничивает частоту запросов от одного клиента (по IP).
func RateLimitMiddleware(log *slog.Logger, limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiters := newClientLimiters(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientIP(r)
			if !limiters.get(client).Allow() {
				log.Warn("too many requests", slog.String("client", client))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(NoticeTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
