package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPrefixMatching(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{"exact", K("journal", "2026-08-30"), K("journal", "2026-08-30"), true},
		{"parent", K("journal", "2026-08-30"), K("journal"), true},
		{"sibling", K("journal", "2026-08-30"), K("meals"), false},
		{"longer prefix", K("journal"), K("journal", "2026-08-30"), false},
		{"empty prefix matches all", K("meals", "7"), K(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestGetCachesUntilInvalidated(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	}

	for n := 0; n < 3; n++ {
		v, err := c.Get(context.Background(), K("journal", "2026-08-30"), fetch)
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	c.Invalidate(K("journal"))

	_, err := c.Get(context.Background(), K("journal", "2026-08-30"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	c := NewCache(nil)

	var calls int32
	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		// slow enough that every concurrent reader joins this flight
		time.Sleep(100 * time.Millisecond)
		return "shared", nil
	}

	const readers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := c.Get(context.Background(), K("profile"), fetch)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestFetchErrorsAreNotCached(t *testing.T) {
	c := NewCache(nil)
	var calls int32
	boom := errors.New("backend down")

	fetch := func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	_, err := c.Get(context.Background(), K("meals"), fetch)
	assert.ErrorIs(t, err, boom)

	v, err := c.Get(context.Background(), K("meals"), fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInvalidationDuringFetchWinsOverStaleResult(t *testing.T) {
	c := NewCache(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	slowFetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return "stale", nil
	}

	done := make(chan any, 1)
	go func() {
		v, _ := c.Get(context.Background(), K("journal", "2026-08-30"), slowFetch)
		done <- v
	}()

	<-started
	c.Invalidate(K("journal"))
	close(release)

	// the in-flight caller still gets its value
	assert.Equal(t, "stale", <-done)

	// but the cache refused to keep it
	_, ok := c.Peek(K("journal", "2026-08-30"))
	assert.False(t, ok)
}

func TestReadAfterInvalidationStartsAFreshFetch(t *testing.T) {
	c := NewCache(nil)

	started := make(chan struct{})
	release := make(chan struct{})

	slowFetch := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "pre-mutation", nil
	}

	done := make(chan any, 1)
	go func() {
		v, _ := c.Get(context.Background(), K("journal", "2026-08-30"), slowFetch)
		done <- v
	}()

	<-started
	c.Invalidate(K("journal"))

	// a read issued after the invalidation must not join the pre-mutation
	// fetch still in flight: it runs its own and sees the new state
	var freshCalls int32
	v, err := c.Get(context.Background(), K("journal", "2026-08-30"), func(ctx context.Context) (any, error) {
		atomic.AddInt32(&freshCalls, 1)
		return "post-mutation", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "post-mutation", v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&freshCalls))

	close(release)
	assert.Equal(t, "pre-mutation", <-done)

	cached, ok := c.Peek(K("journal", "2026-08-30"))
	require.True(t, ok)
	assert.Equal(t, "post-mutation", cached, "the stale result must never displace the fresh one")
}

func TestGetIfServesCacheOrRefusesWhenDisabled(t *testing.T) {
	c := NewCache(nil)

	_, err := c.GetIf(context.Background(), false, K("profile"), func(ctx context.Context) (any, error) {
		t.Fatal("fetch must not run while disabled")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrDisabled)

	c.Set(K("profile"), "cached")
	v, err := c.GetIf(context.Background(), false, K("profile"), nil)
	require.NoError(t, err)
	assert.Equal(t, "cached", v)
}

func TestMutateInvalidatesOnlyOnSuccess(t *testing.T) {
	c := NewCache(nil)
	c.Set(K("journal", "2026-08-30"), "day")
	c.Set(K("meals", "history"), "meals")
	c.Set(K("profile"), "profile")

	boom := errors.New("rejected")
	var observed error
	_, err := c.Mutate(context.Background(), Mutation{
		Run:         func(ctx context.Context) (any, error) { return nil, boom },
		Invalidates: []Key{K("journal"), K("meals")},
		OnError:     func(err error) { observed = err },
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, observed, boom)

	_, ok := c.Peek(K("journal", "2026-08-30"))
	assert.True(t, ok, "failed mutation must not invalidate")

	var succeeded bool
	_, err = c.Mutate(context.Background(), Mutation{
		Run:         func(ctx context.Context) (any, error) { return "ok", nil },
		Invalidates: []Key{K("journal"), K("meals")},
		OnSuccess:   func(any) { succeeded = true },
	})
	require.NoError(t, err)
	assert.True(t, succeeded)

	_, ok = c.Peek(K("journal", "2026-08-30"))
	assert.False(t, ok)
	_, ok = c.Peek(K("meals", "history"))
	assert.False(t, ok)
	_, ok = c.Peek(K("profile"))
	assert.True(t, ok, "unrelated keys survive")
}

func TestClearDropsEverything(t *testing.T) {
	c := NewCache(nil)
	c.Set(K("a"), 1)
	c.Set(K("b"), 2)
	c.Clear()
	_, ok := c.Peek(K("a"))
	assert.False(t, ok)
	_, ok = c.Peek(K("b"))
	assert.False(t, ok)
}
