package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/lawnchairsociety/questabletractor/internal/config"
)

func TestHashAndCheckToken(t *testing.T) {
	hash, err := HashToken("hunter2")
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}

	if err := CheckToken(hash, "hunter2"); err != nil {
		t.Errorf("CheckToken() with the right token: %v", err)
	}
	if err := CheckToken(hash, "hunter3"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("CheckToken() with the wrong token = %v", err)
	}
	if err := CheckToken("", "anything"); err != nil {
		t.Errorf("an empty hash should accept any token: %v", err)
	}
	if _, err := HashToken(""); err == nil {
		t.Error("HashToken() should refuse an empty token")
	}
}

func TestHelloRateLimiterLockout(t *testing.T) {
	rl := NewHelloRateLimiter(config.RateLimitConfig{MaxAttempts: 3, LockoutSeconds: 10, MaxLockoutSeconds: 25})
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		if locked, _ := rl.RecordFailure("1.2.3.4"); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	if rl.GetAttempts("1.2.3.4") != 2 {
		t.Errorf("GetAttempts() = %d", rl.GetAttempts("1.2.3.4"))
	}

	locked, d := rl.RecordFailure("1.2.3.4")
	if !locked || d != 10*time.Second {
		t.Errorf("third failure = %v, %v; want a 10s lockout", locked, d)
	}
	if locked, _ := rl.IsLocked("1.2.3.4"); !locked {
		t.Error("IsLocked() should report the lockout")
	}
	if locked, _ := rl.IsLocked("5.6.7.8"); locked {
		t.Error("other addresses are unaffected")
	}

	rl.RecordSuccess("1.2.3.4")
	if locked, _ := rl.IsLocked("1.2.3.4"); locked {
		t.Error("RecordSuccess() should clear the lockout")
	}
	rl.Stop()
}

func TestConnLimiter(t *testing.T) {
	cl := NewConnLimiter(1)
	if !cl.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if cl.TryAcquire() {
		t.Error("second acquire should be refused")
	}
	cl.Release()
	cl.Release()
	if cl.Count() != 0 {
		t.Errorf("Count() = %d after over-release", cl.Count())
	}

	unlimited := NewConnLimiter(0)
	for i := 0; i < 5; i++ {
		if !unlimited.TryAcquire() {
			t.Fatal("zero means unlimited")
		}
	}
}

func TestExtractIP(t *testing.T) {
	if got := extractIP("10.0.0.1:5555"); got != "10.0.0.1" {
		t.Errorf("extractIP() = %q", got)
	}
	if got := extractIP("not-an-addr"); got != "not-an-addr" {
		t.Errorf("extractIP() = %q", got)
	}
}
