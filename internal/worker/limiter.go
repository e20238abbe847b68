package worker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound requests per host.
// A Limiter built with a non-positive rate lets everything through.
type Limiter struct {
	mu       sync.Mutex
	perHost  map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	disabled bool
}

// NewLimiter creates a per-host limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		perHost:  make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
		disabled: requestsPerSecond <= 0,
	}
}

// Wait blocks until a request to rawURL's host is allowed or ctx is done
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	if l == nil || l.disabled {
		return nil
	}
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	if err := l.forHost(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", host, err)
	}
	return nil
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.perHost[host]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.perHost[host] = lim
	}
	return lim
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("parse URL: missing host in %q", rawURL)
	}
	return strings.ToLower(parsed.Host), nil
}
