package redis

import (
	"context"
	"fmt"
	"time"

	"ms-booking/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const lockKeyPrefix = "showtime_lock:"

// Locker serializes inventory mutations per showtime across service instances
// using SETNX with a TTL. The TTL bounds how long a crashed holder can block a
// showtime; live holders always release explicitly.
type Locker struct {
	Client     *redis.Client
	TTL        time.Duration
	RetryDelay time.Duration
	Log        *logger.Logger
}

func NewLocker(client *redis.Client, ttl time.Duration, log *logger.Logger) *Locker {
	return &Locker{
		Client:     client,
		TTL:        ttl,
		RetryDelay: 10 * time.Millisecond,
		Log:        log,
	}
}

// Acquire blocks until the showtime lock is held or ctx is done. The returned
// function releases the lock; release is owner-checked so an expired lock
// taken over by another instance is never deleted by the original holder.
func (l *Locker) Acquire(ctx context.Context, showtimeID string) (func(), error) {
	key := lockKeyPrefix + showtimeID
	token := uuid.NewString()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("setnx %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for showtime lock %s: %w", showtimeID, ctx.Err())
		case <-time.After(l.RetryDelay):
		}
	}

	return func() { l.release(key, token, showtimeID) }, nil
}

func (l *Locker) release(key, token, showtimeID string) {
	ctx := context.Background()

	val, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		// TTL expired before release; nothing left to delete.
		return
	}
	if err != nil {
		l.Log.Error("INVENTORY", fmt.Sprintf("read showtime lock %s: %v", showtimeID, err))
		return
	}
	if val != token {
		l.Log.Warn("INVENTORY", fmt.Sprintf("showtime lock %s expired and was re-acquired elsewhere", showtimeID))
		return
	}

	if err := l.Client.Del(ctx, key).Err(); err != nil {
		l.Log.Error("INVENTORY", fmt.Sprintf("delete showtime lock %s: %v", showtimeID, err))
	}
}
