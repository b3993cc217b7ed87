package resilience

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "match-001", func(context.Context) error {
				mu.Lock()
				inCritical++
				if inCritical > maxInCritical {
					maxInCritical = inCritical
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inCritical--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("lock failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if maxInCritical != 1 {
		t.Fatalf("expected one holder at a time, saw %d", maxInCritical)
	}
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	if err := m.Lock(ctx, "match-001"); err != nil {
		t.Fatalf("lock match-001: %v", err)
	}
	defer m.Unlock("match-001")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := m.WithLock(ctx, "match-002", func(context.Context) error { return nil }); err != nil {
			t.Errorf("lock match-002: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("distinct key blocked behind unrelated holder")
	}
}

func TestKeyedMutex_LockHonorsContext(t *testing.T) {
	m := NewKeyedMutex()

	if err := m.Lock(context.Background(), "match-001"); err != nil {
		t.Fatalf("lock match-001: %v", err)
	}
	defer m.Unlock("match-001")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := m.Lock(ctx, "match-001"); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
