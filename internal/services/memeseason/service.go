package memeseason

import (
	"github.com/jonboulle/clockwork"
	"github.com/shitzu-labs/shitzu-rewarder/internal/clients/nearclient"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
)

// Service is the memeseason ledger. It turns farm balances into score for
// the primary position of the claiming account, at most once per interval.
type Service struct {
	cfg      *config.MemeseasonConfig
	db       db.MemeseasonStore
	near     nearclient.NearInterface
	rewarder RewarderInterface
	executor *executor.Executor
	clock    clockwork.Clock
}

func NewService(
	cfg *config.MemeseasonConfig,
	store db.MemeseasonStore,
	near nearclient.NearInterface,
	rewarder RewarderInterface,
	exec *executor.Executor,
	clock clockwork.Clock,
) *Service {
	return &Service{
		cfg:      cfg,
		db:       store,
		near:     near,
		rewarder: rewarder,
		executor: exec,
		clock:    clock,
	}
}
