// Package keylock provides exclusive locks scoped to a string key. Entries are reference counted
// and removed once no goroutine holds or waits for them, so the map only grows with the number of
// keys in use.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	sem  chan struct{}
	refs int
}

type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*entry),
	}
}

// Lock blocks until the lock for key is held or ctx is done. The returned function releases the
// lock and must be called exactly once.
func (k *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	e := k.acquireRef(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.releaseRef(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-e.sem
			k.releaseRef(key, e)
		})
	}, nil
}

// TryLock acquires the lock for key only if it is free.
func (k *KeyLock) TryLock(key string) (func(), bool) {
	e := k.acquireRef(key)

	select {
	case e.sem <- struct{}{}:
	default:
		k.releaseRef(key, e)
		return nil, false
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			<-e.sem
			k.releaseRef(key, e)
		})
	}, true
}

// Len returns the number of keys currently held or waited on.
func (k *KeyLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.locks)
}

func (k *KeyLock) acquireRef(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}

	e.refs++

	return e
}

func (k *KeyLock) releaseRef(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}
