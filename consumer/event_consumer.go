package consumer

import (
	"context"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// EventConsumer receives the events the ledgers emit once their state
// changes are committed.
type EventConsumer interface {
	Start() error
	PushEvent(ctx context.Context, ev *types.Event) error
	Stop() error
}
