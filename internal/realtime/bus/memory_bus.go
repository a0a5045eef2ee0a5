package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/methodgraph-backend/internal/realtime"
)

// MemoryBus delivers events to in-process forwarders. It backs single
// instance deployments without redis.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[int]func(realtime.Event)
	next     int
	closed   bool
}

var _ Bus = (*MemoryBus)(nil)

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: map[int]func(realtime.Event){}}
}

func (b *MemoryBus) Publish(ctx context.Context, ev realtime.Event) error {
	if _, err := encodeEvent(ev); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus closed")
	}
	for _, h := range b.handlers {
		h(ev)
	}
	return nil
}

// StartForwarder registers onEvent until ctx is done.
func (b *MemoryBus) StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("event bus closed")
	}
	id := b.next
	b.next++
	b.handlers[id] = onEvent
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = map[int]func(realtime.Event){}
	return nil
}
