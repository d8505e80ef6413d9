// locker/locker.go
package locker

import (
	"context"
	"sync"
)

// Locker is an in-process keyed lock. A key is either free or held by exactly one owner.
type Locker struct {
	mu           sync.Mutex
	inProcessMap map[string]chan struct{}
}

func New() *Locker {
	return &Locker{
		inProcessMap: make(map[string]chan struct{}),
	}
}

// TryLock marks key as processing and reports whether the caller now holds it.
func (l *Locker) TryLock(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.inProcessMap[key]; held {
		return false
	}
	l.inProcessMap[key] = make(chan struct{})
	return true
}

// Lock blocks until key is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		released, held := l.inProcessMap[key]
		if !held {
			l.inProcessMap[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// IsProcessing checks if a key is currently held.
func (l *Locker) IsProcessing(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.inProcessMap[key]
	return held
}

func (l *Locker) Unlock(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if released, held := l.inProcessMap[key]; held {
		close(released)
		delete(l.inProcessMap, key)
	}
}
