package memeseason

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// Bootstrap stores the configured farms unless configs were saved before.
func (s *Service) Bootstrap(ctx context.Context) error {
	_, err := executor.Run(ctx, s.executor, "bootstrap", func(ctx context.Context) *executor.Promise[struct{}] {
		_, err := s.db.GetFarmConfigs(ctx)
		switch {
		case err == nil:
			return executor.Resolved(struct{}{})
		case !db.IsNotFoundError(err):
			return executor.Rejected[struct{}](types.NewInternalServiceError(fmt.Errorf("failed to get farm configs: %w", err)))
		}

		if err := s.db.SaveFarmConfigs(ctx, &s.cfg.Farms); err != nil {
			return executor.Rejected[struct{}](types.NewInternalServiceError(fmt.Errorf("failed to save farm configs: %w", err)))
		}
		log.Ctx(ctx).Info().Msg("farm configs initialized")
		return executor.Resolved(struct{}{})
	})
	return err
}
