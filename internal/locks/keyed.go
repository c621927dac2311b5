package locks

import "sync"

// Keyed serializes units of work per key while leaving distinct keys fully
// independent. Work for one key runs in submission order, one unit at a
// time; there is no global lock, so bursts on unrelated keys never contend.
//
// Bookkeeping for a key exists only while work is queued or running for it.
// Once the last unit for a key settles, its entry is dropped, so memory is
// bounded by concurrently active keys rather than every key ever seen.
type Keyed struct {
	mu      sync.Mutex
	tails   map[string]chan struct{}
	pending map[string]int
}

// NewKeyed creates an empty per-key serializer.
func NewKeyed() *Keyed {
	return &Keyed{
		tails:   make(map[string]chan struct{}),
		pending: make(map[string]int),
	}
}

// RunExclusive runs fn after all previously submitted work for key has
// fully settled, and blocks until fn itself settles. Submission order is
// the order callers reach the internal queue, so a caller that enqueues
// first runs first.
//
// The error from fn is returned to this caller only; it does not abort work
// queued behind it for the same key. A panic inside fn propagates to this
// caller but still releases the key, so followers are not poisoned.
func (k *Keyed) RunExclusive(key string, fn func() error) error {
	k.mu.Lock()
	prev := k.tails[key]
	done := make(chan struct{})
	k.tails[key] = done
	k.pending[key]++
	k.mu.Unlock()

	if prev != nil {
		<-prev
	}

	defer func() {
		close(done)
		k.mu.Lock()
		k.pending[key]--
		if k.pending[key] == 0 {
			delete(k.pending, key)
			delete(k.tails, key)
		}
		k.mu.Unlock()
	}()

	return fn()
}

// ActiveKeys reports how many keys currently hold queue state. It is zero
// whenever no work is queued or running anywhere.
func (k *Keyed) ActiveKeys() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.tails)
}
