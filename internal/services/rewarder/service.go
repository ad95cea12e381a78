package rewarder

import (
	"github.com/jonboulle/clockwork"
	"github.com/shitzu-labs/shitzu-rewarder/consumer"
	"github.com/shitzu-labs/shitzu-rewarder/internal/clients/relayerclient"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
)

// Service is the rewarder ledger: position scores, stake bindings and reward
// dispatch. Every operation runs on the ledger executor.
type Service struct {
	cfg           *config.RewarderConfig
	db            db.RewarderStore
	relayer       relayerclient.RelayerInterface
	eventConsumer consumer.EventConsumer
	executor      *executor.Executor
	clock         clockwork.Clock
}

func NewService(
	cfg *config.RewarderConfig,
	store db.RewarderStore,
	relayer relayerclient.RelayerInterface,
	eventConsumer consumer.EventConsumer,
	exec *executor.Executor,
	clock clockwork.Clock,
) *Service {
	return &Service{
		cfg:           cfg,
		db:            store,
		relayer:       relayer,
		eventConsumer: eventConsumer,
		executor:      exec,
		clock:         clock,
	}
}
