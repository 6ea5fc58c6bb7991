package stream

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

const (
	defaultRequestRate  = 5
	defaultRequestBurst = 10
)

// clientLimiter keeps one token bucket per remote host.
type clientLimiter struct {
	mu     sync.Mutex
	bucket map[string]*rate.Limiter
	rate   rate.Limit
	burst  int
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	if r <= 0 {
		r = defaultRequestRate
	}
	if burst <= 0 {
		burst = defaultRequestBurst
	}
	return &clientLimiter{bucket: make(map[string]*rate.Limiter), rate: r, burst: burst}
}

func (l *clientLimiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.bucket[host]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.bucket[host] = lim
	}
	return lim
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// limitRequests answers 429 once a client opens requests faster than the
// configured rate. Streams are long lived, so only their opening counts.
func (s *Server) limitRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := remoteHost(r)
		if !s.limiter.get(host).Allow() {
			s.logger.Warn("too many requests", "remote", host, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
