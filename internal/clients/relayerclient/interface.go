package relayerclient

import (
	"context"

	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
)

// RelayerInterface executes change calls on collaborator contracts, signed
// by the relayer on behalf of the ledger account.
type RelayerInterface interface {
	FtTransfer(ctx context.Context, tokenID, receiver types.AccountID, amount types.Amount, memo string) error
	NftTransfer(ctx context.Context, nftID, receiver types.AccountID, tokenID types.TokenID, memo string) error
}
