package inventory

import (
	"context"
	"sync"
)

// KeyedMutex is the in-process Locker: one mutex per showtime id, created on
// first use. Suitable for a single-instance deployment; multi-instance setups
// use the Redis-backed locker instead.
type KeyedMutex struct {
	mutexes sync.Map
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

func (k *KeyedMutex) Acquire(_ context.Context, showtimeID string) (func(), error) {
	v, _ := k.mutexes.LoadOrStore(showtimeID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock, nil
}
