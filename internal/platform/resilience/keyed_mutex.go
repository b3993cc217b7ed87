package resilience

import (
	"context"
	"sync"
)

// KeyedMutex serializes work per key while letting distinct keys run
// concurrently. Standings writes hold the match key for the whole
// read-modify-write so overlapping live updates cannot interleave.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

// Lock acquires the mutex for key, blocking until it is available or the
// context is done. On success the caller must call Unlock with the same key.
func (m *KeyedMutex) Lock(ctx context.Context, key string) error {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.release(key, l)
		return ctx.Err()
	}
}

func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	m.mu.Unlock()
	if !ok {
		return
	}

	<-l.ch
	m.release(key, l)
}

func (m *KeyedMutex) release(key string, l *keyedLock) {
	m.mu.Lock()
	l.refs--
	if l.refs <= 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}

// WithLock runs fn while holding the mutex for key.
func (m *KeyedMutex) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := m.Lock(ctx, key); err != nil {
		return err
	}
	defer m.Unlock(key)

	return fn(ctx)
}
