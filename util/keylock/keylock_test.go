package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockIsExclusivePerKey(t *testing.T) {
	kl := New()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32 // set when a second holder is observed
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock, err := kl.Lock(context.Background(), "sc1")
			if !assert.NoError(t, err) {
				return
			}

			if n := inside.Add(1); n > 1 {
				maxSeen.Store(n)
			}

			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(0), maxSeen.Load(), "more than one holder observed")
	assert.Equal(t, 0, kl.Len())
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	kl := New()

	unlock1, err := kl.Lock(context.Background(), "sc1")
	require.NoError(t, err)

	defer unlock1()

	unlock2, ok := kl.TryLock("sc2")
	require.True(t, ok)
	unlock2()

	_, ok = kl.TryLock("sc1")
	assert.False(t, ok)
}

func TestLockHonoursContext(t *testing.T) {
	kl := New()

	unlock, err := kl.Lock(context.Background(), "sc1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = kl.Lock(ctx, "sc1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op

	assert.Equal(t, 0, kl.Len())
}
