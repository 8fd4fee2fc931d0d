//go:build integration

package locker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/mission-control/internal/adapter/postgres/locker"
	"github.com/alanyang/mission-control/internal/testutil"
)

func TestWithLock_Serializes(t *testing.T) {
	l := locker.New(testutil.SetupTestDB(t))
	const key int64 = 424242

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), key, func(ctx context.Context) error {
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(20 * time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestWithLock_ReturnsFnError(t *testing.T) {
	l := locker.New(testutil.SetupTestDB(t))
	boom := errors.New("boom")

	err := l.WithLock(context.Background(), 424243, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	// The lock was released, so it can be taken again.
	require.NoError(t, l.WithLock(context.Background(), 424243, func(context.Context) error { return nil }))
}
