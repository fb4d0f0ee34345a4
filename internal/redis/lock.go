package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
)

const defaultRetryInterval = 25 * time.Millisecond

type redisDoctorLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

// NewRedisDoctorLocker creates a locker that uses a per doctor Redis key.
// Acquisition polls until the key is free or the context (bounded by ttl)
// ends, in which case appointment.ErrDoctorBusy is returned.
func NewRedisDoctorLocker(client *redis.Client, ttl time.Duration) appointment.Locker {
	return &redisDoctorLocker{
		client: client,
		ttl:    ttl,
		retry:  defaultRetryInterval,
	}
}

func lockKey(doctorID string) string {
	return fmt.Sprintf("lock:doctor:%s", doctorID)
}

func (l *redisDoctorLocker) WithDoctorLock(ctx context.Context, doctorID string, fn func(ctx context.Context) error) error {
	key := lockKey(doctorID)
	token := uuid.NewString()

	acquireCtx, cancelAcquire := context.WithTimeout(ctx, l.ttl)
	defer cancelAcquire()

	if err := l.acquire(acquireCtx, key, token); err != nil {
		return err
	}

	defer func() {
		// release even if the caller's context is already done
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = l.release(releaseCtx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *redisDoctorLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return appointment.ErrDoctorBusy
			}
			return fmt.Errorf("acquire doctor lock: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return appointment.ErrDoctorBusy
		case <-ticker.C:
		}
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisDoctorLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release doctor lock: %w", err)
	}
	return nil
}
