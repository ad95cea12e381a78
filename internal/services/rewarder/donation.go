package rewarder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// donationMultiplier applies to reward tokens donated by stakers.
const donationMultiplier = 4

// OnDonation handles reward tokens sent to the ledger. Donations of accounts
// with a primary position are credited four times to it and kept. Anything
// else is reported back as unused so the token refunds it.
func (s *Service) OnDonation(
	ctx context.Context, caller, sender types.AccountID, amount types.Amount, msg string,
) (unused types.Amount, err error) {
	if caller != s.cfg.RewardToken {
		return amount, types.NewUnauthorizedError("only the reward token can donate")
	}

	// a failed donation is refunded in full
	unused, err = executor.Run(ctx, s.executor, "ft_on_transfer", func(ctx context.Context) *executor.Promise[types.Amount] {
		tokenID, err := s.primaryTokenOf(ctx, sender)
		if err != nil {
			return executor.Rejected[types.Amount](err)
		}
		if tokenID == nil {
			log.Ctx(ctx).Info().
				Str("account_id", sender.String()).
				Stringer("amount", amount).
				Msg("donation without primary nft refunded")
			return executor.Resolved(amount)
		}

		credited, err := amount.MulUint64(donationMultiplier)
		if err != nil {
			return executor.Rejected[types.Amount](types.NewArithmeticOverflowError("donation score"))
		}

		err = s.commit(ctx, func(ctx context.Context, emit emitFn) error {
			if _, err := s.recordScore(ctx, *tokenID, credited, emit); err != nil {
				return err
			}

			totals, err := s.db.GetTotals(ctx)
			if err != nil {
				return types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
			}
			totals.TotalDonated, err = totals.TotalDonated.Add(amount)
			if err != nil {
				return types.NewArithmeticOverflowError("total donated")
			}
			if err := s.db.SaveTotals(ctx, totals); err != nil {
				return types.NewInternalServiceError(fmt.Errorf("failed to save totals: %w", err))
			}
			return nil
		})
		if err != nil {
			return executor.Rejected[types.Amount](err)
		}

		log.Ctx(ctx).Info().
			Str("account_id", sender.String()).
			Str("token_id", tokenID.String()).
			Stringer("amount", amount).
			Str("msg", msg).
			Msg("donation received")
		return executor.Resolved(types.ZeroAmount())
	})
	if err != nil {
		return amount, err
	}
	return unused, nil
}
