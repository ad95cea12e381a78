package rewarder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// emitFn queues an event of the running transaction.
type emitFn func(ev *types.Event)

// commit runs fn in a transaction. Events emitted by fn are stored with the
// state they describe and published only once the transaction committed.
func (s *Service) commit(ctx context.Context, fn func(ctx context.Context, emit emitFn) error) error {
	var events []*types.Event
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		// the transaction may be retried, start every attempt afresh
		events = events[:0]
		if err := fn(ctx, func(ev *types.Event) { events = append(events, ev) }); err != nil {
			return err
		}

		now := s.clock.Now()
		for _, ev := range events {
			if err := ev.Validate(); err != nil {
				return types.NewInternalServiceError(err)
			}
			doc, err := model.NewEventDocument(ev, now)
			if err != nil {
				return types.NewInternalServiceError(fmt.Errorf("failed to encode event %s: %w", ev.Event, err))
			}
			if err := s.db.SaveEvent(ctx, doc); err != nil {
				return types.NewInternalServiceError(fmt.Errorf("failed to save event %s: %w", ev.Event, err))
			}
		}
		return nil
	})
	if err != nil {
		return types.AsError(err)
	}

	s.publish(ctx, events)
	return nil
}

// publish logs the committed events and hands them to the consumer. A failed
// push is logged only, the event is already stored.
func (s *Service) publish(ctx context.Context, events []*types.Event) {
	for _, ev := range events {
		log.Ctx(ctx).Info().Msg(ev.String())
		metrics.IncEmittedEvents(ev.Event.String())

		if err := s.eventConsumer.PushEvent(ctx, ev); err != nil {
			log.Ctx(ctx).Error().
				Err(err).
				Str("event", ev.Event.String()).
				Msg("failed to push event to the queue")
		}
	}
}
