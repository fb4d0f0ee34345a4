package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*redisDoctorLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDoctorLocker(client, ttl).(*redisDoctorLocker), mr
}

func TestRedisLockReleasedAfterFn(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	key := lockKey("DR000001")

	var heldDuringFn bool
	err := locker.WithDoctorLock(context.Background(), "DR000001", func(context.Context) error {
		heldDuringFn = mr.Exists(key)
		return nil
	})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !heldDuringFn {
		t.Fatal("expected the key to exist while fn runs")
	}
	if mr.Exists(key) {
		t.Fatal("expected the key to be deleted after fn returns")
	}
}

func TestRedisLockSecondHolderGetsBusy(t *testing.T) {
	ttl := 150 * time.Millisecond
	locker, _ := newTestLocker(t, ttl)

	var inner error
	var waited time.Duration
	err := locker.WithDoctorLock(context.Background(), "DR000001", func(ctx context.Context) error {
		start := time.Now()
		inner = locker.WithDoctorLock(context.Background(), "DR000001", func(context.Context) error {
			t.Error("second holder must not run")
			return nil
		})
		waited = time.Since(start)
		return nil
	})
	if err != nil {
		t.Fatalf("outer lock: %v", err)
	}
	if !errors.Is(inner, appointment.ErrDoctorBusy) {
		t.Fatalf("expected ErrDoctorBusy, got %v", inner)
	}
	if waited < ttl || waited > 5*ttl {
		t.Fatalf("expected to give up after about %s, waited %s", ttl, waited)
	}
}

func TestRedisLockOtherDoctorNotBlocked(t *testing.T) {
	locker, _ := newTestLocker(t, time.Second)

	err := locker.WithDoctorLock(context.Background(), "DR000001", func(context.Context) error {
		return locker.WithDoctorLock(context.Background(), "DR000002", func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("expected independent doctors, got %v", err)
	}
}

func TestRedisLockPollsUntilFree(t *testing.T) {
	locker, mr := newTestLocker(t, 2*time.Second)
	key := lockKey("DR000001")
	if err := mr.Set(key, "someone-else"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		mr.Del(key)
	}()

	ran := false
	err := locker.WithDoctorLock(context.Background(), "DR000001", func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("expected the lock once the other holder let go, ran=%v err=%v", ran, err)
	}
}

func TestRedisLockReleaseKeepsForeignToken(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	key := lockKey("DR000001")
	if err := mr.Set(key, "foreign-token"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	if err := locker.release(context.Background(), key, "my-token"); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, err := mr.Get(key)
	if err != nil || got != "foreign-token" {
		t.Fatalf("foreign lock must survive, got %q err=%v", got, err)
	}
}

func TestRedisLockPropagatesFnError(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	boom := errors.New("boom")

	err := locker.WithDoctorLock(context.Background(), "DR000001", func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if mr.Exists(lockKey("DR000001")) {
		t.Fatal("lock must be released when fn fails")
	}
}
