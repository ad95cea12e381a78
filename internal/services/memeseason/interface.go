package memeseason

import (
	"context"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// RewarderInterface is the part of the rewarder ledger a claim talks to.
type RewarderInterface interface {
	PrimaryPositionOf(ctx context.Context, account types.AccountID) (*types.PrimaryPosition, error)
	OnTrackScore(ctx context.Context, caller types.AccountID, tokenID types.TokenID, amount types.Amount) (types.Amount, error)
}
