package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/memory"
	dbmodel "github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
)

// newStore opens the configured store wrapped with latency metrics.
func newStore(ctx context.Context, cfg *config.DbConfig) (db.DbInterface, error) {
	if cfg.IsMemory() {
		log.Ctx(ctx).Warn().Msg("using in-memory store, state is lost on restart")
		return db.NewDbWithMetrics(memory.New()), nil
	}

	if err := dbmodel.Setup(ctx, cfg); err != nil {
		return nil, fmt.Errorf("error while setting up db model: %w", err)
	}

	dbClient, err := db.New(ctx, *cfg)
	if err != nil {
		return nil, fmt.Errorf("error while creating db client: %w", err)
	}
	return db.NewDbWithMetrics(dbClient), nil
}
