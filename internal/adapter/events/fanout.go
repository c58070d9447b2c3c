package events

import (
	"context"

	"go.uber.org/multierr"

	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check
var _ domainService.EventPublisher = Fanout(nil)

// Fanout delivers each event to every sink and combines their errors.
type Fanout []domainService.EventPublisher

func (f Fanout) Publish(ctx context.Context, event entity.TransferEvent) error {
	var err error
	for _, p := range f {
		err = multierr.Append(err, p.Publish(ctx, event))
	}
	return err
}
