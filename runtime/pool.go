package runtime

import (
	"sync"

	"github.com/axonml/axon/core"
)

// BufferPool recycles fixed-capacity payload buffers. Get hands out a
// buffer together with the core.DeleteFunc that returns it to the pool, so
// a Value constructed over pooled memory carries its matching release
// behavior from birth.
type BufferPool struct {
	buffers sync.Pool
	size    int
}

// NewBufferPool creates a pool of buffers with the given capacity.
func NewBufferPool(bufferSize int) *BufferPool {
	return &BufferPool{
		buffers: sync.Pool{
			New: func() any { return make([]byte, bufferSize) },
		},
		size: bufferSize,
	}
}

// BufferSize returns the capacity of pooled buffers.
func (p *BufferPool) BufferSize() int { return p.size }

// Get returns a zero-filled buffer and the deleter that recycles it. The
// deleter ignores its payload argument: release behavior was bound to this
// buffer when it was handed out, regardless of what the caller wrapped
// around it. Safe to invoke from any goroutine.
func (p *BufferPool) Get() ([]byte, core.DeleteFunc) {
	buf := p.buffers.Get().([]byte)
	clear(buf)
	return buf, func(any) { p.Put(buf) }
}

// Put returns a buffer to the pool. Buffers of the wrong capacity are
// dropped for the GC.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) == p.size {
		p.buffers.Put(buf[:p.size])
	}
}
