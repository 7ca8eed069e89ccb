package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnLocks_SerializesSameKey(t *testing.T) {
	locks := NewTurnLocks()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.Acquire(context.Background(), "conv-1")
			if err != nil {
				t.Error(err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, locks.Len(), "entries should be dropped when unused")
}

func TestTurnLocks_DifferentKeysDoNotBlock(t *testing.T) {
	locks := NewTurnLocks()

	releaseA, err := locks.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := locks.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestTurnLocks_ContextCancel(t *testing.T) {
	locks := NewTurnLocks()

	release, err := locks.Acquire(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.Acquire(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release() // second call is a no-op
	assert.Equal(t, 0, locks.Len())
}
