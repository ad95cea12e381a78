package memeseason

import (
	"context"
	"fmt"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

func view[T any](ctx context.Context, s *Service, kind string, read func(ctx context.Context) (T, error)) (T, error) {
	return executor.Run(ctx, s.executor, kind, func(ctx context.Context) *executor.Promise[T] {
		return executor.Settled(read(ctx))
	})
}

// CheckpointOf returns the time of the last successful claim of account, nil
// if it never claimed.
func (s *Service) CheckpointOf(ctx context.Context, account types.AccountID) (*time.Time, error) {
	return view(ctx, s, "checkpoint_of", func(ctx context.Context) (*time.Time, error) {
		return s.checkpointOf(ctx, account)
	})
}

func (s *Service) FarmConfigs(ctx context.Context) (*types.FarmConfigs, error) {
	return view(ctx, s, "farm_configs", s.farmConfigs)
}

// ClaimStatus returns the claim with the given id.
func (s *Service) ClaimStatus(ctx context.Context, claimID string) (*model.ClaimDocument, error) {
	return view(ctx, s, "claim_status", func(ctx context.Context) (*model.ClaimDocument, error) {
		claim, err := s.db.GetClaim(ctx, claimID)
		if db.IsNotFoundError(err) {
			return nil, types.NewNotFoundError(fmt.Sprintf("claim %s not found", claimID))
		}
		if err != nil {
			return nil, types.NewInternalServiceError(fmt.Errorf("failed to get claim: %w", err))
		}
		return claim, nil
	})
}

func (s *Service) checkpointOf(ctx context.Context, account types.AccountID) (*time.Time, error) {
	checkpoint, err := s.db.GetCheckpoint(ctx, account)
	if db.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get checkpoint: %w", err))
	}
	return &checkpoint, nil
}

func (s *Service) farmConfigs(ctx context.Context) (*types.FarmConfigs, error) {
	configs, err := s.db.GetFarmConfigs(ctx)
	if db.IsNotFoundError(err) {
		return nil, types.NewNotFoundError("farm configs are not set")
	}
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to get farm configs: %w", err))
	}
	return configs, nil
}
