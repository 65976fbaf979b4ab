package security

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex(time.Hour)

	var counter, max, active int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("fam-1")
			defer unlock()

			mu.Lock()
			active++
			if active > max {
				max = active
			}
			counter++
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counter != 8 {
		t.Errorf("expected all 8 workers to run, got %d", counter)
	}
	if max != 1 {
		t.Errorf("expected one holder at a time for the same key, saw %d", max)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex(time.Hour)

	unlock := km.Lock("fam-1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		other := km.Lock("fam-2")
		other()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a different key must not block on fam-1's lock")
	}
}

func TestKeyedMutexSweepDropsIdleEntries(t *testing.T) {
	km := NewKeyedMutex(time.Minute)

	km.Lock("fam-1")()
	km.Lock("fam-2")()
	if km.size() != 2 {
		t.Fatalf("expected 2 entries, got %d", km.size())
	}

	km.sweep(time.Now().Add(2 * time.Minute))
	if km.size() != 0 {
		t.Errorf("expected idle entries to be dropped, got %d", km.size())
	}
}

func TestKeyedMutexSweepKeepsHeldAndRecentEntries(t *testing.T) {
	km := NewKeyedMutex(time.Minute)

	unlock := km.Lock("held")
	defer unlock()
	km.Lock("recent")()

	km.sweep(time.Now())
	if km.size() != 2 {
		t.Errorf("fresh entries must survive a sweep, got %d", km.size())
	}

	// "held" is idle by timestamp but still locked, so only "recent" goes
	km.sweep(time.Now().Add(2 * time.Minute))
	if km.size() != 1 {
		t.Errorf("expected only the held entry to survive, got %d", km.size())
	}
}
