package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	p, err := NewPool("test", DefaultPool, DefaultPoolConfig())
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, "test", p.Name())
	assert.Equal(t, DefaultPool, p.Type())
	assert.Equal(t, 1000, p.Cap())
}

func TestPoolSubmit(t *testing.T) {
	p, err := NewPool("test", DefaultPool, &Config{
		Capacity:       10,
		ExpiryDuration: 5 * time.Second,
	})
	require.NoError(t, err)
	defer p.Release()

	var counter atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		})
		if err != nil {
			wg.Done()
			t.Errorf("submit failed: %v", err)
		}
	}

	wg.Wait()
	assert.Equal(t, int32(100), counter.Load())
}

func TestPoolSubmitAfterRelease(t *testing.T) {
	p, err := NewPool("test", DefaultPool, nil)
	require.NoError(t, err)

	p.Release()

	err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolSubmitWithCancelledContext(t *testing.T) {
	p, err := NewPool("test", DefaultPool, nil)
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(ctx, func() {
		t.Error("task should not run with a cancelled context")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerRegisterAndGet(t *testing.T) {
	m := NewManager()
	defer m.ReleaseAll()

	require.NoError(t, m.RegisterWithType(HealthCheckPool, HealthCheckPoolConfig()))

	err := m.RegisterWithType(HealthCheckPool, HealthCheckPoolConfig())
	assert.ErrorIs(t, err, ErrPoolAlreadyExists)

	p, err := m.GetByType(HealthCheckPool)
	require.NoError(t, err)
	assert.Equal(t, string(HealthCheckPool), p.Name())

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestGlobalManager(t *testing.T) {
	ResetGlobal()
	defer ResetGlobal()

	require.NoError(t, InitGlobal())

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)

	err := SubmitToType(IngestPool, func() {
		defer wg.Done()
		ran.Store(true)
	})
	require.NoError(t, err)

	wg.Wait()
	assert.True(t, ran.Load())
}
