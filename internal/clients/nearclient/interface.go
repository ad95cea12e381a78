package nearclient

import (
	"context"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// NearInterface reads collaborator contract state through NEAR view calls.
type NearInterface interface {
	// GetFarmerSeed returns the seed balance of farmer in a boost farm, nil
	// if the farmer never staked the seed.
	GetFarmerSeed(ctx context.Context, farmID, farmer types.AccountID, seedID string) (*types.FarmerSeed, error)
	FtBalanceOf(ctx context.Context, tokenID, account types.AccountID) (types.Amount, error)
}
