package memeseason

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// ChangeFarmConfigs replaces all three farm configs at once.
func (s *Service) ChangeFarmConfigs(ctx context.Context, caller types.AccountID, configs types.FarmConfigs) error {
	if caller != s.cfg.Owner {
		return types.NewUnauthorizedError("only owner can call this function")
	}
	if err := configs.Validate(); err != nil {
		return types.NewValidationFailedError(err)
	}

	_, err := executor.Run(ctx, s.executor, "change_farm_configs", func(ctx context.Context) *executor.Promise[struct{}] {
		if err := s.db.SaveFarmConfigs(ctx, &configs); err != nil {
			return executor.Rejected[struct{}](types.NewInternalServiceError(err))
		}
		log.Ctx(ctx).Info().Msg("farm configs changed")
		return executor.Resolved(struct{}{})
	})
	return err
}
