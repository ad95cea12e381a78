package rewarder

import (
	"context"
	"fmt"

	"github.com/shitzu-labs/shitzu-rewarder/internal/db/model"
	"github.com/shitzu-labs/shitzu-rewarder/internal/executor"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// FtMetadata describes the score as a fungible token.
type FtMetadata struct {
	Spec     string `json:"spec"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

var ftMetadata = FtMetadata{
	Spec:     "ft-1.0.0",
	Name:     "Shit Stars",
	Symbol:   "SHITSTARS",
	Decimals: 18,
}

// Totals are the ledger wide counters as exposed to clients.
type Totals struct {
	TotalScore       types.Amount `json:"total_score"`
	TotalDistributed types.Amount `json:"total_distributed"`
	TotalDonated     types.Amount `json:"total_donated"`
	TotalStaked      uint64       `json:"total_staked"`
}

func newTotals(t *model.Totals) *Totals {
	return &Totals{
		TotalScore:       t.TotalScore,
		TotalDistributed: t.TotalDistributed,
		TotalDonated:     t.TotalDonated,
		TotalStaked:      t.TotalStaked,
	}
}

// view runs a read on the executor so it observes no half applied operation.
func view[T any](ctx context.Context, s *Service, kind string, read func(ctx context.Context) (T, error)) (T, error) {
	return executor.Run(ctx, s.executor, kind, func(ctx context.Context) *executor.Promise[T] {
		return executor.Settled(read(ctx))
	})
}

// PrimaryPositionOf returns the staked position of account, nil when it has
// nothing staked.
func (s *Service) PrimaryPositionOf(ctx context.Context, account types.AccountID) (*types.PrimaryPosition, error) {
	return view(ctx, s, "primary_position_of", func(ctx context.Context) (*types.PrimaryPosition, error) {
		tokenID, err := s.primaryTokenOf(ctx, account)
		if err != nil || tokenID == nil {
			return nil, err
		}
		score, err := s.db.GetScore(ctx, *tokenID)
		if err != nil {
			return nil, types.NewInternalServiceError(fmt.Errorf("failed to get score: %w", err))
		}
		return &types.PrimaryPosition{TokenID: *tokenID, Score: score}, nil
	})
}

// StakerOf returns the account that staked tokenID, nil when it is not staked.
func (s *Service) StakerOf(ctx context.Context, tokenID types.TokenID) (*types.AccountID, error) {
	return view(ctx, s, "staker_of", func(ctx context.Context) (*types.AccountID, error) {
		return s.stakerOf(ctx, tokenID)
	})
}

// FtTotalSupply is the sum of all scores.
func (s *Service) FtTotalSupply(ctx context.Context) (types.Amount, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return types.Amount{}, err
	}
	return totals.TotalScore, nil
}

// FtBalanceOf is the score of the primary position of account.
func (s *Service) FtBalanceOf(ctx context.Context, account types.AccountID) (types.Amount, error) {
	position, err := s.PrimaryPositionOf(ctx, account)
	if err != nil {
		return types.Amount{}, err
	}
	if position == nil {
		return types.ZeroAmount(), nil
	}
	return position.Score, nil
}

func (s *Service) FtMetadata() FtMetadata {
	return ftMetadata
}

func (s *Service) Totals(ctx context.Context) (*Totals, error) {
	return view(ctx, s, "totals", func(ctx context.Context) (*Totals, error) {
		totals, err := s.db.GetTotals(ctx)
		if err != nil {
			return nil, types.NewInternalServiceError(fmt.Errorf("failed to get totals: %w", err))
		}
		return newTotals(totals), nil
	})
}

func (s *Service) Whitelist(ctx context.Context) ([]types.AccountID, error) {
	return view(ctx, s, "whitelist", func(ctx context.Context) ([]types.AccountID, error) {
		whitelist, err := s.db.GetWhitelist(ctx)
		if err != nil {
			return nil, types.NewInternalServiceError(fmt.Errorf("failed to get whitelist: %w", err))
		}
		return whitelist, nil
	})
}

// LatestEvents returns up to limit emitted events, newest first.
func (s *Service) LatestEvents(ctx context.Context, limit int) ([]model.EventDocument, error) {
	return view(ctx, s, "latest_events", func(ctx context.Context) ([]model.EventDocument, error) {
		events, err := s.db.GetLatestEvents(ctx, limit)
		if err != nil {
			return nil, types.NewInternalServiceError(fmt.Errorf("failed to get events: %w", err))
		}
		return events, nil
	})
}
