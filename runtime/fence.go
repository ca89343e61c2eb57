package runtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/axonml/axon/core"
)

// EventFence is a signal-once completion fence for payloads produced
// asynchronously on the host. The producer calls Signal when the payload's
// contents are fully written; consumers holding the same handle poll Done
// or block in Wait before touching payload memory.
//
// The Value container carries fences without ever waiting on them; waiting
// is a scheduling decision and stays with whoever consumes the fence.
type EventFence struct {
	id   uuid.UUID
	done chan struct{}
	once sync.Once
}

var _ core.Fence = (*EventFence)(nil)

// NewEventFence creates an unsignaled fence.
func NewEventFence() *EventFence {
	return &EventFence{
		id:   uuid.New(),
		done: make(chan struct{}),
	}
}

// Signal marks the fence complete. Idempotent; safe from any goroutine.
func (f *EventFence) Signal() {
	f.once.Do(func() { close(f.done) })
}

// Done reports completion without blocking.
func (f *EventFence) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the fence is signaled or the context ends.
func (f *EventFence) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// String identifies the fence in diagnostics.
func (f *EventFence) String() string {
	state := "pending"
	if f.Done() {
		state = "done"
	}
	return "fence:" + f.id.String() + ":" + state
}
