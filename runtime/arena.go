// Package runtime supplies the memory boundary of the value layer: the
// arena and buffer pool that hand out payload buffers together with the
// matching release callbacks, and a reference fence implementation for
// CPU-side producers.
//
// The container itself never allocates; producers obtain payload memory
// here (or from a device allocator with the same contract), wrap it in a
// payload type, and bind the release behavior as the Value's DeleteFunc.
//
// Key components:
//   - Arena: pre-allocated, cache-line-aligned bump allocator
//   - BufferPool: recycled payload buffers with pool-returning deleters
//   - EventFence: signal-once completion fence
package runtime

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// CacheLineSize is the alignment granted to every arena allocation so
	// payload buffers never share a line across nodes.
	CacheLineSize = 64
)

// ErrArenaExhausted is returned when an allocation does not fit in the
// arena's remaining space.
var ErrArenaExhausted = errors.New("arena exhausted")

// Arena is a pre-allocated memory region handing out cache-line-aligned
// buffers by bump allocation. Individual buffers are not freed; Reset
// reclaims the whole region at once, which is only legal after every Value
// referencing arena memory has been released.
type Arena struct {
	mu  sync.Mutex
	buf []byte
	off uintptr
	log logrus.FieldLogger
}

// ArenaOption configures an Arena.
type ArenaOption func(*Arena)

// WithLogger attaches a structured logger; the arena logs exhaustion and
// resets at debug level.
func WithLogger(log logrus.FieldLogger) ArenaOption {
	return func(a *Arena) { a.log = log }
}

// NewArena allocates an arena of the given capacity, aligned to the cache
// line.
func NewArena(size uintptr, opts ...ArenaOption) (*Arena, error) {
	if size == 0 {
		return nil, errors.New("cannot create zero-size arena")
	}
	a := &Arena{buf: alignedBytes(int(size))}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Alloc returns a cache-line-aligned buffer of the given size.
func (a *Arena) Alloc(size uintptr) ([]byte, error) {
	return a.AllocAligned(size, CacheLineSize)
}

// AllocAligned returns a buffer of the given size at the given alignment,
// which must be a power of two.
func (a *Arena) AllocAligned(size, align uintptr) ([]byte, error) {
	if size == 0 {
		return nil, errors.New("zero-size allocation")
	}
	if align == 0 || align&(align-1) != 0 {
		return nil, errors.Errorf("alignment %d is not a power of two", align)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	off := alignUp(a.off, align)
	if off+size > uintptr(len(a.buf)) {
		if a.log != nil {
			a.log.WithFields(logrus.Fields{
				"requested": size,
				"remaining": uintptr(len(a.buf)) - a.off,
			}).Debug("arena allocation failed")
		}
		return nil, errors.Wrapf(ErrArenaExhausted, "requested %d, %d remaining", size, uintptr(len(a.buf))-a.off)
	}
	a.off = off + size
	return a.buf[off : off+size : off+size], nil
}

// Reset reclaims the entire arena for reuse. The caller must guarantee no
// live payload still references arena memory.
func (a *Arena) Reset() {
	a.mu.Lock()
	a.off = 0
	a.mu.Unlock()
	if a.log != nil {
		a.log.Debug("arena reset")
	}
}

// TotalSize returns the arena's capacity in bytes.
func (a *Arena) TotalSize() uintptr { return uintptr(len(a.buf)) }

// Used returns the number of bytes handed out since the last Reset,
// including alignment padding.
func (a *Arena) Used() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.off
}

// Remaining returns the bytes still available before exhaustion.
func (a *Arena) Remaining() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return uintptr(len(a.buf)) - a.off
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// alignedBytes allocates a byte slice whose backing array starts on a
// cache-line boundary, over-allocating by at most one line.
func alignedBytes(size int) []byte {
	buf := make([]byte, size+CacheLineSize-1)
	ptr := uintptr(unsafe.Pointer(&buf[0]))
	off := uintptr(0)
	if mod := ptr % CacheLineSize; mod != 0 {
		off = CacheLineSize - mod
	}
	return buf[off : off+uintptr(size) : off+uintptr(size)]
}
