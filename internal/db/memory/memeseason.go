package memory

import (
	"context"
	"time"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db"
	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

func (s *Store) GetCheckpoint(ctx context.Context, account types.AccountID) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.checkpoints[account]
	if !ok {
		return time.Time{}, &db.NotFoundError{
			Key:     account.String(),
			Message: "checkpoint not found",
		}
	}
	return at, nil
}

func (s *Store) SetCheckpoint(ctx context.Context, account types.AccountID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.checkpoints[account]
	s.checkpoints[account] = at
	s.record(ctx, func() { s.restoreCheckpoint(account, prev, existed) })
	return nil
}

func (s *Store) DeleteCheckpoint(ctx context.Context, account types.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.checkpoints[account]
	delete(s.checkpoints, account)
	s.record(ctx, func() { s.restoreCheckpoint(account, prev, existed) })
	return nil
}

func (s *Store) restoreCheckpoint(account types.AccountID, at time.Time, existed bool) {
	if existed {
		s.checkpoints[account] = at
	} else {
		delete(s.checkpoints, account)
	}
}

func (s *Store) GetFarmConfigs(ctx context.Context) (*types.FarmConfigs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.farmConfigs == nil {
		return nil, &db.NotFoundError{
			Key:     model.SingletonID,
			Message: "farm configs not found",
		}
	}
	configs := *s.farmConfigs
	return &configs, nil
}

func (s *Store) SaveFarmConfigs(ctx context.Context, configs *types.FarmConfigs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.farmConfigs
	saved := *configs
	s.farmConfigs = &saved
	s.record(ctx, func() { s.farmConfigs = prev })
	return nil
}

func (s *Store) SaveClaim(ctx context.Context, claim *model.ClaimDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[claim.ID]; ok {
		return &db.DuplicateKeyError{
			Key:     claim.ID,
			Message: "claim already exists",
		}
	}
	s.claims[claim.ID] = *claim
	s.record(ctx, func() { delete(s.claims, claim.ID) })
	return nil
}

func (s *Store) UpdateClaim(ctx context.Context, claim *model.ClaimDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.claims[claim.ID]
	if !ok || prev.State != types.ClaimStatePending {
		return &db.NotFoundError{
			Key:     claim.ID,
			Message: "claim not found or no longer pending",
		}
	}
	s.claims[claim.ID] = *claim
	s.record(ctx, func() { s.claims[claim.ID] = prev })
	return nil
}

func (s *Store) GetClaim(ctx context.Context, id string) (*model.ClaimDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.claims[id]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     id,
			Message: "claim not found",
		}
	}
	return &claim, nil
}

func (s *Store) CountClaimsByState(ctx context.Context, state types.ClaimState) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, claim := range s.claims {
		if claim.State == state {
			count++
		}
	}
	return count, nil
}
