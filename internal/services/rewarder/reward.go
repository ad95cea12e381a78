package rewarder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// stakerRewardMultiplier applies to rewards of accounts with a primary position.
const stakerRewardMultiplier = 2

// SentReward describes a completed reward transfer.
type SentReward struct {
	AccountID types.AccountID `json:"account_id"`
	Amount    types.Amount    `json:"amount"`
	TokenID   *types.TokenID  `json:"token_id,omitempty"`
	// Credited is the score added to the primary position, zero without one.
	Credited types.Amount `json:"credited"`
}

// SendRewards transfers amount of the reward token to account. When account
// has a primary position, twice the amount is credited to it after the
// transfer succeeded.
func (s *Service) SendRewards(
	ctx context.Context, caller, account types.AccountID, amount types.Amount,
) (*SentReward, error) {
	if err := account.Validate(); err != nil {
		return nil, types.NewValidationFailedError(err)
	}

	return executor.Run(ctx, s.executor, "send_rewards", func(ctx context.Context) *executor.Promise[*SentReward] {
		if err := s.requireOperator(ctx, caller); err != nil {
			return executor.Rejected[*SentReward](err)
		}

		tokenID, err := s.primaryTokenOf(ctx, account)
		if err != nil {
			return executor.Rejected[*SentReward](err)
		}

		reward := &SentReward{AccountID: account, Amount: amount, TokenID: tokenID, Credited: types.ZeroAmount()}
		if tokenID != nil {
			reward.Credited, err = amount.MulUint64(stakerRewardMultiplier)
			if err != nil {
				return executor.Rejected[*SentReward](types.NewArithmeticOverflowError("reward score"))
			}
		}
		// once the tokens left nothing may stop the bookkeeping
		if err := s.checkReward(ctx, reward); err != nil {
			return executor.Rejected[*SentReward](err)
		}

		result := executor.NewPromise[*SentReward]()
		executor.Call(ctx, s.executor, "on_reward_sent",
			func(ctx context.Context) (struct{}, error) {
				return struct{}{}, s.relayer.FtTransfer(ctx, s.cfg.RewardToken, account, amount, "")
			},
			func(ctx context.Context, _ struct{}, callErr error) {
				result.Settle(reward, s.onRewardSent(ctx, reward, callErr))
			},
		)
		return result
	})
}

func (s *Service) checkReward(ctx context.Context, reward *SentReward) error {
	if reward.TokenID != nil {
		if err := s.checkCredit(ctx, *reward.TokenID, reward.Credited); err != nil {
			return err
		}
	}

	totals, err := s.db.GetTotals(ctx)
	if err != nil {
		return types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
	}
	if _, err := totals.TotalDistributed.Add(reward.Amount); err != nil {
		return types.NewArithmeticOverflowError("total distributed")
	}
	return nil
}

func (s *Service) onRewardSent(ctx context.Context, reward *SentReward, callErr error) error {
	if callErr != nil {
		metrics.IncExternalCallFailures("ft_transfer")
		log.Ctx(ctx).Error().
			Err(callErr).
			Str("account_id", reward.AccountID.String()).
			Stringer("amount", reward.Amount).
			Msg("reward transfer failed")
		return types.NewExternalCallFailedError("ft_transfer", callErr)
	}

	err := s.commit(ctx, func(ctx context.Context, emit emitFn) error {
		// the score belongs to the captured position even if it was unstaked
		// while the transfer was in flight
		if reward.TokenID != nil {
			if _, err := s.recordScore(ctx, *reward.TokenID, reward.Credited, emit); err != nil {
				return err
			}
		}

		totals, err := s.db.GetTotals(ctx)
		if err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
		}
		totals.TotalDistributed, err = totals.TotalDistributed.Add(reward.Amount)
		if err != nil {
			return types.NewArithmeticOverflowError("total distributed")
		}
		if err := s.db.SaveTotals(ctx, totals); err != nil {
			return types.NewInternalServiceError(fmt.Errorf("failed to save totals: %w", err))
		}

		emit(types.NewRewardSentEvent(reward.AccountID, reward.Amount, reward.TokenID))
		return nil
	})
	if err != nil {
		// the tokens already left, only the bookkeeping is missing
		log.Ctx(ctx).Error().
			Err(err).
			Str("account_id", reward.AccountID.String()).
			Stringer("amount", reward.Amount).
			Msg("reward transferred but not recorded")
		return err
	}
	return nil
}

// OnTrackScore credits amount to a staked position on behalf of a whitelisted
// score source.
func (s *Service) OnTrackScore(
	ctx context.Context, caller types.AccountID, tokenID types.TokenID, amount types.Amount,
) (types.Amount, error) {
	return executor.Run(ctx, s.executor, "on_track_score", func(ctx context.Context) *executor.Promise[types.Amount] {
		if err := s.requireWhitelisted(ctx, caller); err != nil {
			return executor.Rejected[types.Amount](err)
		}

		var score types.Amount
		err := s.commit(ctx, func(ctx context.Context, emit emitFn) error {
			staker, err := s.stakerOf(ctx, tokenID)
			if err != nil {
				return err
			}
			if staker == nil {
				return types.NewNothingStakedError(fmt.Sprintf("%s is not staked", tokenID))
			}

			score, err = s.recordScore(ctx, tokenID, amount, emit)
			return err
		})
		return executor.Settled(score, err)
	})
}
