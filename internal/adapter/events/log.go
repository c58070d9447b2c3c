// Package events holds the sinks that receive transfer lifecycle events.
package events

import (
	"context"
	"sync"

	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check
var _ domainService.EventPublisher = (*Log)(nil)

// Log is an in-memory append-only event log that retains the newest capacity
// entries. Sequence numbers assigned by the publisher are kept as-is.
type Log struct {
	mu       sync.RWMutex
	entries  []entity.TransferEvent
	capacity int
	dropped  uint64
}

// NewLog creates a log retaining at most capacity events; capacity <= 0 means unbounded.
func NewLog(capacity int) *Log {
	return &Log{capacity: capacity}
}

// Publish appends event, evicting the oldest entry when full.
func (l *Log) Publish(_ context.Context, event entity.TransferEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.capacity > 0 && len(l.entries) >= l.capacity {
		l.entries = append(l.entries[:0], l.entries[1:]...)
		l.dropped++
	}
	l.entries = append(l.entries, event)
	return nil
}

// Since returns up to limit events with a sequence greater than after, oldest
// first. limit <= 0 returns all of them.
func (l *Log) Since(after uint64, limit int) []entity.TransferEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.TransferEvent, 0)
	for _, e := range l.entries {
		if e.Sequence <= after {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ForTransfer returns the retained events of one transfer, oldest first.
func (l *Log) ForTransfer(transferID string) []entity.TransferEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.TransferEvent, 0)
	for _, e := range l.entries {
		if e.TransferID == transferID {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Dropped returns how many events were evicted for capacity.
func (l *Log) Dropped() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dropped
}
