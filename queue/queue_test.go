package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDo(t *testing.T) {
	p := NewPool(2)
	defer p.Stop()
	assert.Equal(t, 2, p.Workers())
	var ran bool
	err := p.Do(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	failure := fmt.Errorf("failure")
	assert.Equal(t, failure, p.Do(context.Background(), func(ctx context.Context) error {
		return failure
	}))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(3)
	defer p.Stop()
	var current, max int64
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Do(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt64(&current, 1)
				for {
					m := atomic.LoadInt64(&max)
					if n <= m || atomic.CompareAndSwapInt64(&max, m, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt64(&max), int64(3))
	assert.Equal(t, 0, p.Running())
}

func TestPoolContextDone(t *testing.T) {
	p := NewPool(1)
	defer p.Stop()
	release := make(chan struct{})
	started := make(chan struct{})
	go p.Do(context.Background(), func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var ran bool
	err := p.Do(ctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.Equal(t, context.DeadlineExceeded, err)
	close(release)
	assert.False(t, ran)
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool(1)
	defer p.Stop()
	err := p.Do(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})
	assert.EqualError(t, err, "job panicked: boom")
}

func TestPoolStopped(t *testing.T) {
	p := NewPool(0)
	assert.Equal(t, DefaultMaxConcurrency, p.Workers())
	p.Stop()
	err := p.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.Equal(t, ErrStopped, err)
}
