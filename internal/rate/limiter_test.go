package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "ip:1.2.3.4")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("4th hit should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Fatal("RetryAfter should be positive when rejected")
	}

	// otra key no comparte ventana
	other, err := l.Allow(ctx, "ip:5.6.7.8")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !other.Allowed {
		t.Fatal("different key should be allowed")
	}
}

func TestRedisLimiter_KeyShape(t *testing.T) {
	winStart := time.Unix(1700000000, 0).UTC()

	l := NewRedisLimiter(nil, "rl:", 30, time.Minute)
	if got, want := l.redisKey("token:1.2.3.4", winStart), "rl:token:1.2.3.4:1700000000"; got != want {
		t.Fatalf("redisKey = %q, want %q", got, want)
	}

	// prefijo vacío cae al default
	l = NewRedisLimiter(nil, "", 30, time.Minute)
	if got, want := l.redisKey("token:1.2.3.4", winStart), "rl:token:1.2.3.4:1700000000"; got != want {
		t.Fatalf("redisKey = %q, want %q", got, want)
	}
}
