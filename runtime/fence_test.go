package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonml/axon/core"
	"github.com/axonml/axon/tensor"
	"github.com/axonml/axon/types"
)

func TestEventFenceSignal(t *testing.T) {
	t.Parallel()
	f := NewEventFence()
	assert.False(t, f.Done())

	f.Signal()
	assert.True(t, f.Done())

	f.Signal() // idempotent
	assert.True(t, f.Done())
}

func TestEventFenceWait(t *testing.T) {
	t.Parallel()
	f := NewEventFence()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Signal()
	}()

	require.NoError(t, f.Wait(context.Background()))
	assert.True(t, f.Done())
}

func TestEventFenceWaitCancelled(t *testing.T) {
	t.Parallel()
	f := NewEventFence()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.Done())
}

func TestEventFenceString(t *testing.T) {
	t.Parallel()
	f := NewEventFence()
	assert.Contains(t, f.String(), "pending")
	f.Signal()
	assert.Contains(t, f.String(), "done")
}

// A fence attached by a producer must be observable through every shared
// copy of the value, as the same underlying signal.
func TestEventFenceCarriedByValue(t *testing.T) {
	t.Parallel()
	dense, err := tensor.NewDense([]int{2}, []float32{0, 0})
	require.NoError(t, err)

	produced := core.NewValue(dense, types.Of[tensor.Dense[float32]](), nil)
	defer produced.Release()

	f := NewEventFence()
	produced.SetFence(f)

	consumed := produced.Clone()
	defer consumed.Release()

	got, ok := consumed.Fence().(*EventFence)
	require.True(t, ok)
	assert.Same(t, f, got)

	assert.False(t, got.Done())
	f.Signal()
	assert.True(t, got.Done())
}

func TestBufferPool(t *testing.T) {
	t.Parallel()
	pool := NewBufferPool(512)
	assert.Equal(t, 512, pool.BufferSize())

	buf, del := pool.Get()
	require.Len(t, buf, 512)
	for _, b := range buf {
		require.Zero(t, b, "pooled buffers are handed out zeroed")
	}

	buf[0] = 0xFF
	del(nil)

	// After recycling, a fresh Get must be zeroed again.
	buf2, del2 := pool.Get()
	require.Len(t, buf2, 512)
	assert.Zero(t, buf2[0])
	del2(nil)
}

// End-to-end shape of the allocator boundary: pooled memory wrapped in a
// payload, released through the Value's deleter.
func TestBufferPoolBoundDeleter(t *testing.T) {
	t.Parallel()
	pool := NewBufferPool(4 * 4)

	buf, del := pool.Get()
	data := make([]float32, 4)
	_ = buf // device writes would target buf; the payload mirrors it here
	dense, err := tensor.NewDense([]int{4}, data)
	require.NoError(t, err)

	v := core.NewValue(dense, types.Of[tensor.Dense[float32]](), del)
	copy2 := v.Clone()

	v.Release()
	copy2.Release() // last release recycles the pooled buffer

	buf2, del2 := pool.Get()
	require.Len(t, buf2, 16)
	del2(nil)
}
