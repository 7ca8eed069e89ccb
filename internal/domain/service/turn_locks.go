package service

import (
	"context"
	"sync"
)

// TurnLocks serializes turns per conversation. Turns on different
// conversations never wait on each other. Entries are dropped once no
// caller holds or waits for them.
type TurnLocks struct {
	mu    sync.Mutex
	locks map[string]*turnLock
}

type turnLock struct {
	sem  chan struct{}
	refs int
}

// NewTurnLocks 创建会话锁表
func NewTurnLocks() *TurnLocks {
	return &TurnLocks{locks: make(map[string]*turnLock)}
}

// Acquire blocks until the caller owns key or ctx is done. The returned
// release func must be called exactly once.
func (l *TurnLocks) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &turnLock{sem: make(chan struct{}, 1)}
		l.locks[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, lk)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lk.sem
			l.unref(key, lk)
		})
	}, nil
}

// Len reports how many conversations currently have a lock entry.
func (l *TurnLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *TurnLocks) unref(key string, lk *turnLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}
