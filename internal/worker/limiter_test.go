package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.burst)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if err := limiter.Wait(ctx, "http://example.com"); err != nil {
			t.Fatalf("disabled limiter returned error: %v", err)
		}
	}
	if err := limiter.Wait(ctx, "not a url at all"); err != nil {
		t.Errorf("disabled limiter should allow everything: %v", err)
	}

	var nilLimiter *Limiter
	if err := nilLimiter.Wait(ctx, "http://example.com"); err != nil {
		t.Errorf("nil limiter returned error: %v", err)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	wait := func(rawURL string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		return limiter.Wait(ctx, rawURL)
	}

	if err := wait("http://example.com/a"); err != nil {
		t.Fatalf("first request should be allowed: %v", err)
	}
	if err := wait("http://example.com/b"); err == nil {
		t.Error("second request to same host should be limited")
	}
	if err := wait("http://EXAMPLE.org/"); err != nil {
		t.Errorf("different host should have its own budget: %v", err)
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	url := "http://example.com"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when the next token is beyond the deadline")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	limiter := NewLimiter(5, 1)
	if err := limiter.Wait(context.Background(), "/relative/path"); err == nil {
		t.Error("expected error for URL without host")
	}
}
