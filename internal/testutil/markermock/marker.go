package markermock

import (
	"context"
	"fmt"
	"sync"
)

// Marker is an in-memory tick-completion marker for tests.
type Marker struct {
	mu   sync.Mutex
	done map[string]bool

	AlreadyProcessedFn func(ctx context.Context, bankID string, tick int64) (bool, error)
	MarkProcessedFn    func(ctx context.Context, bankID string, tick int64) error
}

func New() *Marker {
	return &Marker{done: map[string]bool{}}
}

func key(bankID string, tick int64) string { return fmt.Sprintf("%s:%d", bankID, tick) }

func (m *Marker) AlreadyProcessed(ctx context.Context, bankID string, tick int64) (bool, error) {
	if m.AlreadyProcessedFn != nil {
		return m.AlreadyProcessedFn(ctx, bankID, tick)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done[key(bankID, tick)], nil
}

func (m *Marker) MarkProcessed(ctx context.Context, bankID string, tick int64) error {
	if m.MarkProcessedFn != nil {
		return m.MarkProcessedFn(ctx, bankID, tick)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done[key(bankID, tick)] = true
	return nil
}
