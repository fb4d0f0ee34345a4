package appointment

import (
	"context"
	"sync"
)

// Locker guards the critical section of booking and cancellation per doctor
// so that two requests for the same doctor cannot interleave.
type Locker interface {
	WithDoctorLock(ctx context.Context, doctorID string, fn func(ctx context.Context) error) error
}

type localLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker returns an in-process keyed lock. Waiters give up with
// ErrDoctorBusy when their context ends first.
func NewLocalLocker() Locker {
	return &localLocker{slots: make(map[string]*lockSlot)}
}

func (l *localLocker) WithDoctorLock(ctx context.Context, doctorID string, fn func(ctx context.Context) error) error {
	slot := l.acquireRef(doctorID)
	defer l.releaseRef(doctorID, slot)

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		return ErrDoctorBusy
	}
	defer func() { <-slot.ch }()

	return fn(ctx)
}

func (l *localLocker) acquireRef(key string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *localLocker) releaseRef(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}
