package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
	"blockpoints-bridge/internal/pkg/apperrors"
)

// Compile-time check
var _ domainService.EventPublisher = (*Async)(nil)

// Async decouples the bridge from slow sinks: Publish only enqueues, and a
// single worker forwards events downstream in order.
type Async struct {
	next   domainService.EventPublisher
	queue  chan entity.TransferEvent
	logger *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsync creates a dispatcher with the given queue size. Call Run to start it.
func NewAsync(next domainService.EventPublisher, buffer int, logger *zap.Logger) *Async {
	if buffer <= 0 {
		buffer = 1
	}
	return &Async{
		next:   next,
		queue:  make(chan entity.TransferEvent, buffer),
		logger: logger.Named("AsyncEventDispatcher"),
		done:   make(chan struct{}),
	}
}

// Publish enqueues event without blocking; a full queue drops it with an error.
func (a *Async) Publish(_ context.Context, event entity.TransferEvent) error {
	select {
	case <-a.done:
		return fmt.Errorf("%w: event dispatcher closed", apperrors.ErrUnavailable)
	default:
	}
	select {
	case a.queue <- event:
		return nil
	default:
		return fmt.Errorf("%w: event queue full, dropped %s event for %s",
			apperrors.ErrUnavailable, event.Type, event.TransferID,
		)
	}
}

// Run forwards queued events until ctx is done or Close is called, then drains
// what is left in the queue.
func (a *Async) Run(ctx context.Context) {
	a.logger.Info("Event dispatcher started", zap.Int("buffer", cap(a.queue)))
	for {
		select {
		case e := <-a.queue:
			a.forward(ctx, e)
		case <-ctx.Done():
			a.drain(context.Background())
			a.logger.Info("Event dispatcher stopping due to context cancellation.")
			return
		case <-a.done:
			a.drain(ctx)
			a.logger.Info("Event dispatcher closed.")
			return
		}
	}
}

// Close stops accepting events; Run drains and returns.
func (a *Async) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}

func (a *Async) drain(ctx context.Context) {
	for {
		select {
		case e := <-a.queue:
			a.forward(ctx, e)
		default:
			return
		}
	}
}

func (a *Async) forward(ctx context.Context, e entity.TransferEvent) {
	if err := a.next.Publish(ctx, e); err != nil {
		a.logger.Warn("Event sink failed",
			zap.Uint64("sequence", e.Sequence),
			zap.String("transferId", e.TransferID),
			zap.Error(err),
		)
	}
}
