package promise_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/contentapi/promise"
)

func TestNew_RunsEagerlyAndOnce(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	p := promise.New(context.Background(), func(context.Context) (int, error) {
		calls.Add(1)
		close(started)
		return 42, nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("producer did not start without Wait")
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.Wait()
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, p.IsResolved())
}

func TestLazy_DoesNotRunUntilForced(t *testing.T) {
	var calls atomic.Int32
	p := promise.Lazy(context.Background(), func(context.Context) (string, error) {
		calls.Add(1)
		return "x", nil
	})

	time.Sleep(10 * time.Millisecond)
	assert.False(t, p.IsResolved())
	assert.Equal(t, int32(0), calls.Load())

	v, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	_, _ = p.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestThen_ComposesLeftToRight(t *testing.T) {
	p := promise.Then(promise.Resolved(2), func(v int) (int, error) { return v * 10, nil })
	q := promise.Then(p, func(v int) (string, error) { return strconv.Itoa(v + 1), nil })

	v, err := q.Wait()
	require.NoError(t, err)
	assert.Equal(t, "21", v)
}

func TestThen_ErrorShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Bool

	p := promise.Then(promise.Rejected[int](boom), func(v int) (int, error) {
		ran.Store(true)
		return v, nil
	})
	q := promise.Then(p, func(v int) (int, error) {
		ran.Store(true)
		return v, nil
	})

	_, err := q.Wait()
	assert.Same(t, boom, err)
	assert.False(t, ran.Load())
}

func TestThen_TransformFailureRejects(t *testing.T) {
	bad := errors.New("bad transform")
	p := promise.Then(promise.Resolved(1), func(int) (int, error) { return 0, bad })

	_, err := p.Wait()
	assert.ErrorIs(t, err, bad)
}

func TestThen_IsLazy(t *testing.T) {
	var ran atomic.Bool
	p := promise.Then(promise.Resolved(1), func(v int) (int, error) {
		ran.Store(true)
		return v, nil
	})
	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load())
	assert.False(t, p.IsResolved())

	<-p.Done()
	assert.True(t, ran.Load())
}

func TestPanicRejects(t *testing.T) {
	p := promise.New(context.Background(), func(context.Context) (int, error) {
		panic("kaboom")
	})
	_, err := p.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestAll(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	v, err := promise.All(promise.Resolved(1), promise.Resolved(2)).Wait()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	_, err = promise.All(promise.Resolved(1), promise.Rejected[int](first), promise.Rejected[int](second)).Wait()
	assert.Same(t, first, err)

	v, err = promise.All[int]().Wait()
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSettle(t *testing.T) {
	v, err := promise.Settle(3, nil).Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	boom := errors.New("boom")
	_, err = promise.Settle(3, boom).Wait()
	assert.Same(t, boom, err)
}

func TestProducerSeesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	v, err := promise.Lazy(ctx, func(ctx context.Context) (any, error) {
		return ctx.Value(key{}), nil
	}).Wait()
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
