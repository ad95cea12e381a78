package memeseason

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"github.com/shitzu-labs/shitzu-rewarder/internal/utils/join"
)

// branch indexes of the claim fan-out, farms follow in FarmConfigs.List order
const (
	primaryBranch   = 0
	firstFarmBranch = 1
)

// FarmContribution is the part of a claim earned in one farm.
type FarmContribution struct {
	Farm    types.FarmName `json:"farm"`
	Balance types.Amount   `json:"balance"`
	Score   types.Amount   `json:"score"`
	// Failed is set when the farm could not be queried and counted as empty.
	Failed bool `json:"failed,omitempty"`
}

// ClaimResult is the outcome of a successful claim.
type ClaimResult struct {
	ClaimID       string             `json:"claim_id"`
	AccountID     types.AccountID    `json:"account_id"`
	TokenID       types.TokenID      `json:"token_id"`
	Amount        types.Amount       `json:"amount"`
	Contributions []FarmContribution `json:"contributions"`
	// Score is the score of the position after the claim was credited.
	Score types.Amount `json:"score"`
}

// claim carries one claim across its executor tasks.
type claim struct {
	doc     *model.ClaimDocument
	account types.AccountID
	configs *types.FarmConfigs
	result  *executor.Promise[*ClaimResult]

	// set once the join ran
	position      *types.PrimaryPosition
	contributions []FarmContribution
	amount        types.Amount
	// checkpoint the claim replaced, restored if forwarding fails
	previous *time.Time
}

// Claim converts the farm balances of caller into score for its primary
// position. Farms that cannot be queried or where caller holds no seed add
// nothing.
func (s *Service) Claim(ctx context.Context, caller types.AccountID) (*ClaimResult, error) {
	if err := caller.Validate(); err != nil {
		return nil, types.NewValidationFailedError(err)
	}

	return executor.Run(ctx, s.executor, "claim", func(ctx context.Context) *executor.Promise[*ClaimResult] {
		now := s.clock.Now()
		if _, err := s.checkCooldown(ctx, caller, now); err != nil {
			return executor.Rejected[*ClaimResult](err)
		}

		configs, err := s.farmConfigs(ctx)
		if err != nil {
			return executor.Rejected[*ClaimResult](err)
		}

		c := &claim{
			doc: &model.ClaimDocument{
				ID:        uuid.New().String(),
				AccountID: caller.String(),
				State:     types.ClaimStatePending,
				CreatedAt: now,
				UpdatedAt: now,
			},
			account: caller,
			configs: configs,
			result:  executor.NewPromise[*ClaimResult](),
		}
		if err := s.db.SaveClaim(ctx, c.doc); err != nil {
			return executor.Rejected[*ClaimResult](types.NewInternalServiceError(fmt.Errorf("failed to save claim: %w", err)))
		}
		metrics.IncPendingClaims()

		log.Ctx(ctx).Debug().
			Str("claim_id", c.doc.ID).
			Str("account_id", caller.String()).
			Msg("claim started")

		executor.Call(ctx, s.executor, "on_claim_joined",
			func(ctx context.Context) ([]join.Result, error) {
				return s.fanOut(ctx, c), nil
			},
			func(ctx context.Context, results []join.Result, _ error) {
				s.onClaimJoined(ctx, c, results)
			},
		)
		return c.result
	})
}

// fanOut queries the primary position and every farm in parallel and waits
// for all of them.
func (s *Service) fanOut(ctx context.Context, c *claim) []join.Result {
	farms := c.configs.List()
	barrier := join.NewBarrier(firstFarmBranch + len(farms))

	barrier.Go(ctx, primaryBranch, func(ctx context.Context) (any, error) {
		return s.rewarder.PrimaryPositionOf(ctx, c.account)
	})
	for i, farm := range farms {
		barrier.Go(ctx, firstFarmBranch+i, func(ctx context.Context) (any, error) {
			return s.near.GetFarmerSeed(ctx, farm.Config.FarmID, c.account, farm.Config.SeedID)
		})
	}
	return barrier.Wait()
}

// onClaimJoined runs on the executor once every branch resolved.
func (s *Service) onClaimJoined(ctx context.Context, c *claim, results []join.Result) {
	position, err := join.Value[*types.PrimaryPosition](results[primaryBranch])
	if err != nil {
		metrics.IncExternalCallFailures("primary_position_of")
		s.failClaim(ctx, c, types.NewExternalCallFailedError("primary_position_of", err))
		return
	}
	if position == nil {
		s.failClaim(ctx, c, types.NewNoPrimaryPositionError(fmt.Sprintf("%s has no primary nft", c.account)))
		return
	}
	c.position = position

	c.amount = types.ZeroAmount()
	for i, farm := range c.configs.List() {
		contribution := FarmContribution{
			Farm:    farm.Name,
			Balance: types.ZeroAmount(),
			Score:   types.ZeroAmount(),
		}

		// a failed query or an absent seed earns nothing, not even base
		seed, err := join.Value[*types.FarmerSeed](results[firstFarmBranch+i])
		switch {
		case err != nil:
			metrics.IncExternalCallFailures("get_farmer_seed_" + string(farm.Name))
			log.Ctx(ctx).Warn().
				Err(err).
				Str("claim_id", c.doc.ID).
				Str("farm", string(farm.Name)).
				Msg("farm query failed, counted as empty")
			contribution.Failed = true
		case seed != nil:
			contribution.Balance = seed.FreeAmount
			contribution.Score, err = Contribution(farm.Config, seed.FreeAmount)
			if err != nil {
				s.failClaim(ctx, c, types.AsError(err))
				return
			}
		}

		c.amount, err = c.amount.Add(contribution.Score)
		if err != nil {
			s.failClaim(ctx, c, types.NewArithmeticOverflowError("claim amount"))
			return
		}
		c.contributions = append(c.contributions, contribution)
	}

	// another claim of the account may have completed during the fan-out
	now := s.clock.Now()
	previous, err := s.checkCooldown(ctx, c.account, now)
	if err != nil {
		s.failClaim(ctx, c, types.AsError(err))
		return
	}
	c.previous = previous

	if err := s.db.SetCheckpoint(ctx, c.account, now); err != nil {
		s.failClaim(ctx, c, types.NewInternalServiceError(fmt.Errorf("failed to set checkpoint: %w", err)))
		return
	}

	executor.Call(ctx, s.executor, "on_score_tracked",
		func(ctx context.Context) (types.Amount, error) {
			return s.rewarder.OnTrackScore(ctx, s.cfg.AccountID, position.TokenID, c.amount)
		},
		func(ctx context.Context, score types.Amount, err error) {
			s.onScoreTracked(ctx, c, score, err)
		},
	)
}

func (s *Service) onScoreTracked(ctx context.Context, c *claim, score types.Amount, callErr error) {
	if callErr != nil {
		metrics.IncExternalCallFailures("on_track_score")

		claimErr := types.AsError(callErr)
		if claimErr.ErrorCode == types.InternalServiceError {
			claimErr = types.NewExternalCallFailedError("on_track_score", callErr)
		}

		err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
			if err := s.restoreCheckpoint(ctx, c); err != nil {
				return err
			}
			return s.finishClaim(ctx, c, types.ClaimStateFailed, claimErr)
		})
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("claim_id", c.doc.ID).Msg("failed to roll back claim")
		}
		c.result.Reject(claimErr)
		return
	}

	c.doc.TokenID = c.position.TokenID.String()
	c.doc.Score = c.amount.String()
	if err := s.finishClaim(ctx, c, types.ClaimStateSucceeded, nil); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("claim_id", c.doc.ID).Msg("failed to record claim outcome")
	}

	log.Ctx(ctx).Info().
		Str("claim_id", c.doc.ID).
		Str("account_id", c.account.String()).
		Str("token_id", c.position.TokenID.String()).
		Stringer("amount", c.amount).
		Msg("claim succeeded")

	c.result.Resolve(&ClaimResult{
		ClaimID:       c.doc.ID,
		AccountID:     c.account,
		TokenID:       c.position.TokenID,
		Amount:        c.amount,
		Contributions: c.contributions,
		Score:         score,
	})
}

// failClaim ends a claim that never touched the checkpoint.
func (s *Service) failClaim(ctx context.Context, c *claim, claimErr *types.Error) {
	if err := s.finishClaim(ctx, c, types.ClaimStateFailed, claimErr); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("claim_id", c.doc.ID).Msg("failed to record claim outcome")
	}

	log.Ctx(ctx).Info().
		Str("claim_id", c.doc.ID).
		Str("account_id", c.account.String()).
		Str("error_code", claimErr.ErrorCode.String()).
		Msg("claim failed")
	c.result.Reject(claimErr)
}

func (s *Service) finishClaim(ctx context.Context, c *claim, state types.ClaimState, claimErr *types.Error) error {
	c.doc.State = state
	c.doc.UpdatedAt = s.clock.Now()
	if claimErr != nil {
		c.doc.ErrorCode = claimErr.ErrorCode.String()
	}
	if err := s.db.UpdateClaim(ctx, c.doc); err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	metrics.DecPendingClaims()
	metrics.IncClaims(state.String())
	return nil
}

func (s *Service) restoreCheckpoint(ctx context.Context, c *claim) error {
	if c.previous == nil {
		return s.db.DeleteCheckpoint(ctx, c.account)
	}
	return s.db.SetCheckpoint(ctx, c.account, *c.previous)
}

// checkCooldown fails with TooSoon while the last claim of account is within
// the interval. It returns the last claim time, nil if there is none.
func (s *Service) checkCooldown(ctx context.Context, account types.AccountID, now time.Time) (*time.Time, error) {
	checkpoint, err := s.checkpointOf(ctx, account)
	if err != nil {
		return nil, err
	}
	if checkpoint != nil && now.Sub(*checkpoint) <= s.cfg.Interval {
		return checkpoint, types.NewTooSoonError(fmt.Sprintf(
			"next claim of %s possible after %s", account, checkpoint.Add(s.cfg.Interval).UTC().Format(time.RFC3339),
		))
	}
	return checkpoint, nil
}
