package locking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalLockerMutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	locker.Tries = 2
	locker.RetryDelay = time.Millisecond

	ctx := context.Background()

	release, err := locker.Acquire(ctx, "key-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := locker.Acquire(ctx, "key-1"); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("second acquire: err = %v, want ErrNotAcquired", err)
	}

	// a different key is independent
	otherRelease, err := locker.Acquire(ctx, "key-2")
	if err != nil {
		t.Fatal(err)
	}
	otherRelease()

	release()

	release, err = locker.Acquire(ctx, "key-1")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release()
}

func TestLocalLockerSerializesCriticalSections(t *testing.T) {
	locker := NewLocalLocker()
	locker.Tries = 1000
	locker.RetryDelay = time.Millisecond

	ctx := context.Background()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := locker.Acquire(ctx, "counter")
			if err != nil {
				t.Error(err)
				return
			}
			defer release()

			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestLocalLockerHonorsContext(t *testing.T) {
	locker := NewLocalLocker()
	locker.Tries = 1000
	locker.RetryDelay = 10 * time.Millisecond

	release, err := locker.Acquire(context.Background(), "key-1")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if _, err := locker.Acquire(ctx, "key-1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
