package rewarder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

func (s *Service) requireOwner(caller types.AccountID) error {
	if caller != s.cfg.Owner {
		return types.NewUnauthorizedError("only owner can call this function")
	}
	return nil
}

func (s *Service) requireOperator(ctx context.Context, caller types.AccountID) error {
	operator, err := s.db.GetOperator(ctx)
	if err != nil && !db.IsNotFoundError(err) {
		return types.NewInternalServiceError(fmt.Errorf("failed to get operator: %w", err))
	}
	if err != nil || caller != operator {
		return types.NewUnauthorizedError("only operator can send rewards")
	}
	return nil
}

func (s *Service) requireWhitelisted(ctx context.Context, caller types.AccountID) error {
	ok, err := s.db.IsWhitelisted(ctx, caller)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to check whitelist: %w", err))
	}
	if !ok {
		return types.NewUnauthorizedError("only whitelisted contracts can call this function")
	}
	return nil
}

// AddToWhitelist allows account to record scores through OnTrackScore.
func (s *Service) AddToWhitelist(ctx context.Context, caller, account types.AccountID) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := account.Validate(); err != nil {
		return types.NewValidationFailedError(err)
	}

	_, err := executor.Run(ctx, s.executor, "whitelist", func(ctx context.Context) *executor.Promise[struct{}] {
		if err := s.db.AddToWhitelist(ctx, account); err != nil {
			return executor.Rejected[struct{}](types.NewInternalServiceError(err))
		}
		log.Ctx(ctx).Info().Str("account_id", account.String()).Msg("added to whitelist")
		return executor.Resolved(struct{}{})
	})
	return err
}

func (s *Service) RemoveFromWhitelist(ctx context.Context, caller, account types.AccountID) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}

	_, err := executor.Run(ctx, s.executor, "remove_from_whitelist", func(ctx context.Context) *executor.Promise[struct{}] {
		if err := s.db.RemoveFromWhitelist(ctx, account); err != nil {
			return executor.Rejected[struct{}](types.NewInternalServiceError(err))
		}
		log.Ctx(ctx).Info().Str("account_id", account.String()).Msg("removed from whitelist")
		return executor.Resolved(struct{}{})
	})
	return err
}

// SetOperator replaces the account allowed to send rewards.
func (s *Service) SetOperator(ctx context.Context, caller, operator types.AccountID) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := operator.Validate(); err != nil {
		return types.NewValidationFailedError(err)
	}

	_, err := executor.Run(ctx, s.executor, "set_operator", func(ctx context.Context) *executor.Promise[struct{}] {
		if err := s.db.SetOperator(ctx, operator); err != nil {
			return executor.Rejected[struct{}](types.NewInternalServiceError(err))
		}
		log.Ctx(ctx).Info().Str("operator", operator.String()).Msg("operator changed")
		return executor.Resolved(struct{}{})
	})
	return err
}
