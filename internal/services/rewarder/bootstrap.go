package rewarder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// Bootstrap seeds the operator and the whitelist from the configuration on
// first start. Runtime changes to either are kept.
func (s *Service) Bootstrap(ctx context.Context) error {
	_, err := executor.Run(ctx, s.executor, "bootstrap", func(ctx context.Context) *executor.Promise[struct{}] {
		return executor.Settled(struct{}{}, s.bootstrap(ctx))
	})
	return err
}

func (s *Service) bootstrap(ctx context.Context) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.db.GetOperator(ctx)
		switch {
		case err == nil:
			return nil
		case !db.IsNotFoundError(err):
			return types.NewInternalServiceError(fmt.Errorf("failed to get operator: %w", err))
		}

		// an unset operator marks a fresh store, later starts keep the
		// whitelist the owner maintains at runtime
		if err := s.db.SetOperator(ctx, s.cfg.Operator); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to set operator: %w", err))
		}
		for _, account := range s.cfg.Whitelist {
			if err := s.db.AddToWhitelist(ctx, account); err != nil {
				return types.NewInternalServiceError(fmt.Errorf("failed to whitelist %s: %w", account, err))
			}
		}

		log.Ctx(ctx).Info().
			Str("operator", s.cfg.Operator.String()).
			Int("whitelisted", len(s.cfg.Whitelist)).
			Msg("rewarder initialized")
		return nil
	})
}
