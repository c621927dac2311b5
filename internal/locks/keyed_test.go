package locks

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunExclusive_NeverInterleavesSameKey(t *testing.T) {
	k := NewKeyed()

	var active int32
	var maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = k.RunExclusive("item-01", func() error {
				cur := atomic.AddInt32(&active, 1)
				for {
					prev := atomic.LoadInt32(&maxActive)
					if cur <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, cur) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxActive); got != 1 {
		t.Errorf("expected at most one unit in flight, observed %d", got)
	}
}

func TestRunExclusive_PreservesSubmissionOrder(t *testing.T) {
	k := NewKeyed()

	gate := make(chan struct{})
	blockerRunning := make(chan struct{})
	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Hold the key so the numbered units queue behind it.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = k.RunExclusive("item-01", func() error {
			close(blockerRunning)
			<-gate
			return nil
		})
	}()
	<-blockerRunning

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = k.RunExclusive("item-01", func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		// Give each goroutine time to enqueue before the next one starts.
		time.Sleep(20 * time.Millisecond)
	}

	close(gate)
	wg.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("expected submission order %v position %d, got %d (order %v)", []int{0, 1, 2, 3, 4}, i, got, order)
		}
	}
}

func TestRunExclusive_DistinctKeysIndependent(t *testing.T) {
	k := NewKeyed()

	gate := make(chan struct{})
	aRunning := make(chan struct{})
	aDone := make(chan struct{})
	bDone := make(chan struct{})

	go func() {
		_ = k.RunExclusive("item-a", func() error {
			close(aRunning)
			<-gate
			return nil
		})
		close(aDone)
	}()
	<-aRunning

	go func() {
		_ = k.RunExclusive("item-b", func() error { return nil })
		close(bDone)
	}()

	// B must finish while A still holds its key.
	select {
	case <-bDone:
	case <-time.After(2 * time.Second):
		t.Fatal("work on item-b blocked behind item-a")
	}

	select {
	case <-aDone:
		t.Fatal("item-a finished before its gate opened")
	default:
	}

	close(gate)
	<-aDone
}

func TestRunExclusive_ErrorDoesNotPoisonQueue(t *testing.T) {
	k := NewKeyed()
	boom := errors.New("boom")

	errCh := make(chan error, 1)
	ran := make(chan struct{})
	started := make(chan struct{})
	gate := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- k.RunExclusive("item-01", func() error {
			close(started)
			<-gate
			return boom
		})
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := k.RunExclusive("item-01", func() error {
			close(ran)
			return nil
		}); err != nil {
			t.Errorf("follower received unexpected error: %v", err)
		}
	}()

	close(gate)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("queued work did not run after a failing predecessor")
	}
	if err := <-errCh; !errors.Is(err, boom) {
		t.Errorf("expected boom returned to the failing caller, got %v", err)
	}
	wg.Wait()
}

func TestRunExclusive_PanicReleasesKey(t *testing.T) {
	k := NewKeyed()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate to the caller")
			}
		}()
		_ = k.RunExclusive("item-01", func() error { panic("bad work unit") })
	}()

	done := make(chan struct{})
	go func() {
		_ = k.RunExclusive("item-01", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("key stayed held after a panicking work unit")
	}
}

func TestActiveKeys_DroppedWhenIdle(t *testing.T) {
	k := NewKeyed()

	running := make(chan struct{})
	gate := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = k.RunExclusive("item-01", func() error {
			close(running)
			<-gate
			return nil
		})
		close(done)
	}()
	<-running

	if got := k.ActiveKeys(); got != 1 {
		t.Errorf("expected 1 active key while running, got %d", got)
	}

	close(gate)
	<-done

	if got := k.ActiveKeys(); got != 0 {
		t.Errorf("expected bookkeeping dropped for idle keys, got %d", got)
	}
}
