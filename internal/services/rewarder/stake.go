package rewarder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

const unstakeMemo = "Return old primary NFT"

// Stake handles the transfer notification of the NFT collaborator. The
// previous owner becomes the staker. When revert is true the collaborator
// must return the token to its previous owner.
func (s *Service) Stake(
	ctx context.Context, caller, sender, prevOwner types.AccountID, tokenID types.TokenID, msg string,
) (revert bool, err error) {
	if caller != s.cfg.Nft {
		return true, types.NewUnauthorizedError("only the nft contract can stake")
	}
	if err := prevOwner.Validate(); err != nil {
		return true, types.NewValidationFailedError(err)
	}
	if err := tokenID.Validate(); err != nil {
		return true, types.NewValidationFailedError(err)
	}

	log.Ctx(ctx).Debug().
		Str("sender", sender.String()).
		Str("account_id", prevOwner.String()).
		Str("token_id", tokenID.String()).
		Str("msg", msg).
		Msg("nft received")

	_, err = executor.Run(ctx, s.executor, "stake", func(ctx context.Context) *executor.Promise[struct{}] {
		return executor.Settled(struct{}{}, s.stake(ctx, prevOwner, tokenID))
	})
	if err != nil {
		return true, err
	}
	return false, nil
}

func (s *Service) stake(ctx context.Context, account types.AccountID, tokenID types.TokenID) error {
	var totalStaked uint64
	err := s.commit(ctx, func(ctx context.Context, emit emitFn) error {
		if staked, err := s.primaryTokenOf(ctx, account); err != nil {
			return err
		} else if staked != nil {
			return types.NewAlreadyStakedError(fmt.Sprintf("%s already staked %s", account, *staked))
		}

		if staker, err := s.stakerOf(ctx, tokenID); err != nil {
			return err
		} else if staker != nil {
			return types.NewAlreadyStakedError(fmt.Sprintf("%s is already staked by %s", tokenID, *staker))
		}

		if err := s.db.SaveStake(ctx, account, tokenID); err != nil {
			if db.IsDuplicateKeyError(err) {
				return types.NewError(http.StatusConflict, types.AlreadyStaked, err)
			}
			return types.NewInternalServiceError(fmt.Errorf("failed to save stake: %w", err))
		}

		totals, err := s.db.GetTotals(ctx)
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
		}
		totals.TotalStaked++
		if err := s.db.SaveTotals(ctx, totals); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to save totals: %w", err))
		}
		totalStaked = totals.TotalStaked

		emit(types.NewNftStakedEvent(account, tokenID))

		score, err := s.db.GetScore(ctx, tokenID)
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to get score: %w", err))
		}
		if !score.IsZero() {
			emit(types.NewFtMintEvent(account, score))
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTotalStaked(totalStaked)
	log.Ctx(ctx).Info().
		Str("account_id", account.String()).
		Str("token_id", tokenID.String()).
		Msg("nft staked")
	return nil
}

// Unstake returns the primary NFT of caller. The stake is only released once
// the NFT collaborator confirmed the transfer.
func (s *Service) Unstake(ctx context.Context, caller types.AccountID) (types.TokenID, error) {
	return executor.Run(ctx, s.executor, "unstake", func(ctx context.Context) *executor.Promise[types.TokenID] {
		tokenID, err := s.primaryTokenOf(ctx, caller)
		if err != nil {
			return executor.Rejected[types.TokenID](err)
		}
		if tokenID == nil {
			return executor.Rejected[types.TokenID](types.NewNothingStakedError(
				fmt.Sprintf("%s has no primary nft", caller),
			))
		}

		result := executor.NewPromise[types.TokenID]()
		executor.Call(ctx, s.executor, "on_unstake",
			func(ctx context.Context) (struct{}, error) {
				return struct{}{}, s.relayer.NftTransfer(ctx, s.cfg.Nft, caller, *tokenID, unstakeMemo)
			},
			func(ctx context.Context, _ struct{}, callErr error) {
				result.Settle(*tokenID, s.onUnstake(ctx, caller, *tokenID, callErr))
			},
		)
		return result
	})
}

func (s *Service) onUnstake(ctx context.Context, account types.AccountID, tokenID types.TokenID, callErr error) error {
	if callErr != nil {
		metrics.IncExternalCallFailures("nft_transfer")
		log.Ctx(ctx).Error().
			Err(callErr).
			Str("account_id", account.String()).
			Str("token_id", tokenID.String()).
			Msg("failed to return nft, stake kept")
		return types.NewExternalCallFailedError("nft_transfer", callErr)
	}

	var totalStaked uint64
	err := s.commit(ctx, func(ctx context.Context, emit emitFn) error {
		// the binding may have changed while the transfer was in flight
		staked, err := s.primaryTokenOf(ctx, account)
		if err != nil {
			return err
		}
		if staked == nil || *staked != tokenID {
			return types.NewNothingStakedError(fmt.Sprintf("%s no longer has %s staked", account, tokenID))
		}

		if err := s.db.DeleteStake(ctx, account, tokenID); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to delete stake: %w", err))
		}

		totals, err := s.db.GetTotals(ctx)
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
		}
		if totals.TotalStaked > 0 {
			totals.TotalStaked--
		}
		if err := s.db.SaveTotals(ctx, totals); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to save totals: %w", err))
		}
		totalStaked = totals.TotalStaked

		emit(types.NewNftUnstakedEvent(account, tokenID))

		score, err := s.db.GetScore(ctx, tokenID)
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to get score: %w", err))
		}
		if !score.IsZero() {
			emit(types.NewFtBurnEvent(account, score))
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTotalStaked(totalStaked)
	log.Ctx(ctx).Info().
		Str("account_id", account.String()).
		Str("token_id", tokenID.String()).
		Msg("nft unstaked")
	return nil
}

// primaryTokenOf returns nil when account has nothing staked.
func (s *Service) primaryTokenOf(ctx context.Context, account types.AccountID) (*types.TokenID, error) {
	tokenID, err := s.db.GetStakedToken(ctx, account)
	if db.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get staked token: %w", err))
	}
	return &tokenID, nil
}

// stakerOf returns nil when tokenID is not staked.
func (s *Service) stakerOf(ctx context.Context, tokenID types.TokenID) (*types.AccountID, error) {
	staker, err := s.db.GetStaker(ctx, tokenID)
	if db.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get staker: %w", err))
	}
	return &staker, nil
}
